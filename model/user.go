package model

import (
	"regexp"
	"strings"
	"time"
)

var handleSep = regexp.MustCompile(`\s*,\s*`)

type User struct {
	ID              int64     `json:"id" xorm:"pk autoincr"`
	CreatedAt       time.Time `json:"created_at" xorm:"created"`                        //创建时间
	Username        string    `json:"username" xorm:"varchar(64) unique index notnull"` //用户名
	RealName        string    `json:"real_name" xorm:"varchar(64)"`                     //真实姓名
	Major           string    `json:"major" xorm:"varchar(64)"`                         //专业
	LastAttemptTime time.Time `json:"last_attempt_time" xorm:"index"`                   //最近一次在外部OJ上的尝试, 只增不减
	Accounts        []UserOJ  `json:"accounts" xorm:"-"`                                //绑定的外部OJ账号
}

// UserOJ 用户在某个平台上的账号, AccountName 可以是逗号分隔的多个账号
type UserOJ struct {
	ID          int64    `json:"id" xorm:"pk autoincr"`
	UserID      int64    `json:"user_id" xorm:"unique(user_platform) index notnull"`
	Platform    Platform `json:"platform" xorm:"varchar(32) unique(user_platform) notnull"`
	AccountName string   `json:"account_name" xorm:"varchar(255)"`
}

func (UserOJ) TableName() string {
	return "user_oj"
}

// SplitHandles 按逗号拆分账号, 忽略逗号两边的空白和空串
func SplitHandles(accountName string) []string {
	ret := make([]string, 0)
	for _, s := range handleSep.Split(strings.TrimSpace(accountName), -1) {
		if s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}

// Handles 用户在平台 p 上的所有账号
func (u *User) Handles(p Platform) []string {
	ret := make([]string, 0)
	for _, acc := range u.Accounts {
		if acc.Platform == p {
			ret = append(ret, SplitHandles(acc.AccountName)...)
		}
	}
	return ret
}
