package app

//对请求的参数进行验证
import (
	"CodingTracker/common"
	"CodingTracker/crawler"
	"CodingTracker/model"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	zh_translations "gopkg.in/go-playground/validator.v9/translations/zh"
)

var (
	structValidator = validator.New()
	trans           ut.Translator
)

func init() {
	uni := ut.New(zh.New())
	trans, _ = uni.GetTranslator("zh")
	_ = zh_translations.RegisterDefaultTranslations(structValidator, trans)
}

//安装绑定验证
func validate(s interface{}) (bool, string) {
	errs := structValidator.Struct(s)
	if errs != nil {
		msgs := make([]string, 0)
		for _, err := range errs.(validator.ValidationErrors) {
			msgs = append(msgs, err.Translate(trans))
		}
		return false, strings.Join(msgs, "\n")
	}
	return true, ""
}

//统计窗口, 北京时间, 左闭右开
type windowValidator struct {
	Start string `form:"start" validate:"required"`
	End   string `form:"end" validate:"required"`

	start, end time.Time
}

func (wv *windowValidator) isOk() (bool, string) {
	if ok, msg := validate(wv); !ok {
		return false, msg
	}
	var err error
	if wv.start, err = common.ParseCSTTime(wv.Start); err != nil {
		return false, "start 的格式应为 " + common.TIME_FORMAT
	}
	if wv.end, err = common.ParseCSTTime(wv.End); err != nil {
		return false, "end 的格式应为 " + common.TIME_FORMAT
	}
	if !wv.start.Before(wv.end) {
		return false, "start 必须早于 end"
	}
	return true, ""
}

type userValidator struct {
	ID       int64  `form:"id" json:"id" validate:"gte=0"`
	Username string `form:"username" json:"username" validate:"lte=64"`
}

func (uv *userValidator) isOk() (bool, string) {
	if uv.ID == 0 && uv.Username == "" {
		return false, "id 和 username 至少需要一个"
	}
	return validate(uv)
}

type accountForm struct {
	Platform    string `json:"platform" validate:"required"`
	AccountName string `json:"account_name" validate:"required,lte=255"`
}

//新增用户
type newUserValidator struct {
	Username string        `json:"username" validate:"required,lte=64"`
	RealName string        `json:"real_name" validate:"lte=64"`
	Major    string        `json:"major" validate:"lte=64"`
	Accounts []accountForm `json:"accounts" validate:"dive"`
}

func (nv *newUserValidator) isOk() (bool, string) {
	if strings.ContainsAny(nv.Username, " \n\t\r") {
		return false, "用户名不能包含空字符"
	}
	if ok, msg := validate(nv); !ok {
		return false, msg
	}
	for _, acc := range nv.Accounts {
		if model.PlatformFromName(acc.Platform) == model.UNKNOWN {
			return false, fmt.Sprintf("未知的平台 %s", acc.Platform)
		}
	}
	return true, ""
}

func (nv *newUserValidator) toUser() *model.User {
	u := &model.User{Username: nv.Username, RealName: nv.RealName, Major: nv.Major}
	for _, acc := range nv.Accounts {
		u.Accounts = append(u.Accounts, model.UserOJ{Platform: model.PlatformFromName(acc.Platform), AccountName: acc.AccountName})
	}
	return u
}

//按范围补题目, pids 不为空时忽略 start/end
type backfillValidator struct {
	Platform string   `form:"platform" json:"platform" validate:"required"`
	Start    int      `form:"start" json:"start" validate:"gte=0"`
	End      int      `form:"end" json:"end" validate:"gte=0"`
	PIDs     []string `form:"pids" json:"pids" validate:"lte=1000"`

	platform model.Platform
}

func (bv *backfillValidator) isOk() (bool, string) {
	if ok, msg := validate(bv); !ok {
		return false, msg
	}
	if bv.platform = model.PlatformFromName(bv.Platform); bv.platform == model.UNKNOWN {
		return false, fmt.Sprintf("未知的平台 %s", bv.Platform)
	}
	if len(bv.PIDs) == 0 && bv.End-bv.Start > 10000 {
		return false, "一次最多补 10000 道题"
	}
	return true, ""
}

func (bv *backfillValidator) toRange() crawler.Range {
	return crawler.Range{Start: bv.Start, End: bv.End, PIDs: bv.PIDs}
}
