package tracker

import (
	"CodingTracker/common"
	"CodingTracker/crawler"
	"CodingTracker/dao"
	"CodingTracker/extoj"
	"CodingTracker/model"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CatalogResult 题库同步的结果, 题库只增不删
type CatalogResult struct {
	Fresh           int              `json:"fresh"`    //第一次见到的题目
	Updated         int              `json:"updated"`  //本地已有且这次又看到的题目
	Retained        int              `json:"retained"` //本地已有但这次没看到的题目, 照样保留
	Total           int64            `json:"total"`
	FailedPlatforms []model.Platform `json:"failed_platforms"`
}

// RefreshCatalog 拉取各平台的在线题库, 和本地题库取并集
func (t *Tracker) RefreshCatalog(ctx context.Context) (*CatalogResult, error) {
	log := t.log.WithField("kind", "catalog")
	adapters := t.usable(log)
	failed := make([]bool, len(adapters))
	lists, _ := runBounded(ctx, t.cfg.PoolSize, len(adapters),
		func(ctx context.Context, i int) ([]model.Problem, error) {
			return callWithTimeout(ctx, t.cfg.TaskTimeout, adapters[i].GetAllProblemsOnline)
		},
		func(i int, err error) {
			failed[i] = true
			taskFailures.WithLabelValues(string(adapters[i].Platform()), "catalog").Inc()
			log.WithError(err).WithField("platform", adapters[i].Platform()).Error("题库抓取失败, 保留本地题库")
		})

	res := &CatalogResult{FailedPlatforms: make([]model.Platform, 0)}
	online := make(map[model.ProblemKey]*model.Problem)
	for i, list := range lists {
		if failed[i] {
			res.FailedPlatforms = append(res.FailedPlatforms, adapters[i].Platform())
			continue
		}
		for j := range list {
			p := &list[j]
			online[p.Key()] = p
		}
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	for k, p := range online {
		old, err := t.store.FindProblem(ctx, k.Platform, k.PID)
		switch {
		case err == nil:
			p.ID = old.ID
			res.Updated++
		case dao.IsNotFound(err):
			res.Fresh++
		default:
			log.WithError(err).WithFields(logrus.Fields{"platform": k.Platform, "pid": k.PID}).Warn("查询题目失败")
		}
	}
	t.saveProblems(ctx, log, sortedProblems(online))

	all, err := t.store.ListProblems(ctx, "")
	if err != nil {
		refreshRuns.WithLabelValues("catalog", "error").Inc()
		return nil, err
	}
	for i := range all {
		if _, ok := online[all[i].Key()]; !ok {
			res.Retained++
		}
	}
	total, err := t.store.CountProblems(ctx)
	if err != nil {
		refreshRuns.WithLabelValues("catalog", "error").Inc()
		return nil, err
	}
	res.Total = total
	refreshRuns.WithLabelValues("catalog", "ok").Inc()
	log.WithFields(logrus.Fields{"fresh": res.Fresh, "updated": res.Updated, "retained": res.Retained, "total": total}).Info("题库同步完成")
	return res, nil
}

// Backfill 按范围补全某个平台的题目
func (t *Tracker) Backfill(ctx context.Context, platform model.Platform, r crawler.Range) (int, error) {
	a := extoj.Find(t.adapters, platform)
	if a == nil {
		return 0, fmt.Errorf("%w: 不支持的平台 %s", common.ErrBadRequest, platform)
	}
	b, ok := a.(extoj.Backfiller)
	if !ok {
		return 0, fmt.Errorf("%w: %s 不支持批量抓题", common.ErrBadRequest, platform)
	}
	if r.Empty() {
		return 0, nil
	}
	problems, err := b.Backfill(ctx, r)
	if err != nil {
		return 0, err
	}
	byKey := make(map[model.ProblemKey]*model.Problem, len(problems))
	for i := range problems {
		byKey[problems[i].Key()] = &problems[i]
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	ids := t.saveProblems(ctx, t.log.WithField("kind", "backfill"), sortedProblems(byKey))
	return len(ids), nil
}
