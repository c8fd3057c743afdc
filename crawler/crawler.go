package crawler

import (
	"CodingTracker/dao"
	"CodingTracker/model"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Range 批量抓题目的范围, 闭区间; PIDs 不为空时优先使用
type Range struct {
	Start int
	End   int
	PIDs  []string
}

// All 不限制范围
var All = Range{Start: 1, End: 0}

func (r Range) Empty() bool {
	return len(r.PIDs) == 0 && r.End < r.Start
}

// Crawler 单个平台的爬虫
type Crawler interface {
	Platform() model.Platform
	//抓取用户在该平台上的所有尝试, 每条尝试带上看到的题目信息
	FetchUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error)
	FetchProblem(ctx context.Context, pid string) (*model.Problem, error)
	FetchAllProblems(ctx context.Context, r Range) ([]model.Problem, error)
}

// Deps 所有爬虫共用的依赖
type Deps struct {
	Fetcher  Fetcher
	Links    *Links
	Problems dao.ProblemFinder
	Log      *logrus.Entry
	//一次抓取最多补多少个题目详情, 0 表示不限
	DetailLimit int
}

type base struct {
	platform    model.Platform
	fetcher     Fetcher
	links       *Links
	problems    dao.ProblemFinder
	log         *logrus.Entry
	detailLimit int
}

func newBase(p model.Platform, d Deps) base {
	return base{
		platform:    p,
		fetcher:     d.Fetcher,
		links:       d.Links,
		problems:    d.Problems,
		log:         d.Log.WithFields(logrus.Fields{"component": "crawler", "platform": p}),
		detailLimit: d.DetailLimit,
	}
}

func (b *base) Platform() model.Platform {
	return b.platform
}

func (b *base) link() (*model.OJLink, error) {
	return b.links.Get(b.platform)
}

//已经入库的题目, 查询失败时只记日志
func (b *base) known(ctx context.Context, pids []string) map[string]*model.Problem {
	if b.problems == nil || len(pids) == 0 {
		return map[string]*model.Problem{}
	}
	ret, err := b.problems.FindProblems(ctx, b.platform, pids)
	if err != nil {
		b.log.WithError(err).Warn("查询已有题目失败")
		return map[string]*model.Problem{}
	}
	return ret
}

// sighting 以库里的记录为基础, 用本次看到的名字和链接更新
func (b *base) sighting(old *model.Problem, pid, name, url string) *model.Problem {
	p := &model.Problem{Platform: b.platform, PID: pid, Name: name, Type: model.PROGRAMMING, URL: url}
	if old != nil {
		c := *old
		if name != "" {
			c.Name = name
		}
		if url != "" {
			c.URL = url
		}
		p = &c
	}
	return p
}

func (b *base) handles(user *model.User) []string {
	hs := user.Handles(b.platform)
	if len(hs) == 0 {
		b.log.WithField("user", user.Username).Debug("用户没有绑定该平台账号")
	}
	return hs
}

func (b *base) skip(unit string, err error, fields logrus.Fields) {
	skippedUnits.WithLabelValues(string(b.platform), unit).Inc()
	b.log.WithFields(fields).WithError(err).Warn(fmt.Sprintf("%s 抓取失败, 已跳过", unit))
}

func uniquePIDs(pids []string) []string {
	seen := make(map[string]bool, len(pids))
	ret := make([]string, 0, len(pids))
	for _, pid := range pids {
		if !seen[pid] {
			seen[pid] = true
			ret = append(ret, pid)
		}
	}
	return ret
}

//Range 展开成 pid 列表, format 形如 "P%d"
func (r Range) expand(format string) []string {
	if len(r.PIDs) > 0 {
		return r.PIDs
	}
	ret := make([]string, 0)
	for i := r.Start; i <= r.End; i++ {
		ret = append(ret, fmt.Sprintf(format, i))
	}
	return ret
}
