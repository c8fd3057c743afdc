package extoj

import (
	"CodingTracker/crawler"
	"CodingTracker/dao"
	"CodingTracker/model"
	"context"
)

// Adapter 同步流程看到的平台, 只有这四个操作
type Adapter interface {
	Platform() model.Platform
	LinkConfig() (*model.OJLink, error)
	GetUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error)
	GetAllProblemsOnline(ctx context.Context) ([]model.Problem, error)
}

// Backfiller 可以按范围批量补全题目的平台
type Backfiller interface {
	Backfill(ctx context.Context, r crawler.Range) ([]model.Problem, error)
}

// ProfileSource 可以拉取用户资料的平台
type ProfileSource interface {
	FetchUserInfos(ctx context.Context, handles []string) ([]model.CFUserInfo, error)
}

type baseAdapter struct {
	crawler  crawler.Crawler
	links    *crawler.Links
	problems dao.ProblemStore
}

func (a *baseAdapter) Platform() model.Platform {
	return a.crawler.Platform()
}

func (a *baseAdapter) LinkConfig() (*model.OJLink, error) {
	return a.links.Get(a.crawler.Platform())
}

func (a *baseAdapter) GetUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error) {
	return a.crawler.FetchUserAttempts(ctx, user)
}

// GetAllProblemsOnline 默认返回本地已知的题目
func (a *baseAdapter) GetAllProblemsOnline(ctx context.Context) ([]model.Problem, error) {
	return a.problems.ListProblems(ctx, a.crawler.Platform())
}

func (a *baseAdapter) Backfill(ctx context.Context, r crawler.Range) ([]model.Problem, error) {
	return a.crawler.FetchAllProblems(ctx, r)
}

// Options 构造所有 adapter 需要的东西
type Options struct {
	Deps          crawler.Deps
	Problems      dao.ProblemStore
	LuoguTags     map[int]string
	LuoguMaxPages int
}

// NewAdapters 已注册的平台, 顺序固定
func NewAdapters(o Options) []Adapter {
	if o.Deps.Problems == nil {
		o.Deps.Problems = o.Problems
	}
	return []Adapter{
		NewCodeforcesAdapter(crawler.NewCodeforces(o.Deps), o.Deps.Links, o.Problems),
		NewLuoguAdapter(crawler.NewLuogu(o.Deps, o.LuoguTags, o.LuoguMaxPages), o.Deps.Links, o.Problems),
		NewHDUAdapter(crawler.NewHDU(o.Deps), o.Deps.Links, o.Problems),
		NewPOJAdapter(crawler.NewPOJ(o.Deps), o.Deps.Links, o.Problems),
	}
}

// Find 按平台找 adapter
func Find(adapters []Adapter, p model.Platform) Adapter {
	for _, a := range adapters {
		if a.Platform() == p {
			return a
		}
	}
	return nil
}
