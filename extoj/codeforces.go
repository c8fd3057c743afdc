package extoj

import (
	"CodingTracker/crawler"
	"CodingTracker/dao"
	"CodingTracker/model"
	"context"
)

type CodeforcesAdapter struct {
	baseAdapter
	cf *crawler.Codeforces
}

func NewCodeforcesAdapter(cf *crawler.Codeforces, links *crawler.Links, problems dao.ProblemStore) *CodeforcesAdapter {
	return &CodeforcesAdapter{
		baseAdapter: baseAdapter{crawler: cf, links: links, problems: problems},
		cf:          cf,
	}
}

// GetAllProblemsOnline 配置了题库链接时抓取在线题库, 否则用本地的
func (a *CodeforcesAdapter) GetAllProblemsOnline(ctx context.Context) ([]model.Problem, error) {
	link, err := a.LinkConfig()
	if err != nil {
		return nil, err
	}
	if link.CatalogURL == "" {
		return a.baseAdapter.GetAllProblemsOnline(ctx)
	}
	return a.cf.FetchAllProblems(ctx, crawler.All)
}

func (a *CodeforcesAdapter) FetchUserInfos(ctx context.Context, handles []string) ([]model.CFUserInfo, error) {
	return a.cf.FetchUserInfos(ctx, handles)
}
