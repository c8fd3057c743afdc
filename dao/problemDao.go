package dao

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"fmt"
)

func (s *XormStore) FindProblem(ctx context.Context, platform model.Platform, pid string) (*model.Problem, error) {
	p := &model.Problem{}
	ok, err := s.engine.Context(ctx).Where("platform = ? AND pid = ?", platform, pid).Get(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("题目 %s %s: %w", platform, pid, common.ErrNotFound)
	}
	return p, nil
}

func (s *XormStore) FindProblems(ctx context.Context, platform model.Platform, pids []string) (map[string]*model.Problem, error) {
	ret := make(map[string]*model.Problem)
	//分批查, 避免 in 的参数过多
	for start := 0; start < len(pids); start += 200 {
		end := start + 200
		if end > len(pids) {
			end = len(pids)
		}
		list := make([]model.Problem, 0)
		if err := s.engine.Context(ctx).Where("platform = ?", platform).In("pid", pids[start:end]).Find(&list); err != nil {
			return nil, err
		}
		for i := range list {
			ret[list[i].PID] = &list[i]
		}
	}
	return ret, nil
}

func (s *XormStore) ListProblems(ctx context.Context, platform model.Platform) ([]model.Problem, error) {
	list := make([]model.Problem, 0)
	sess := s.engine.Context(ctx)
	if platform != "" {
		sess = sess.Where("platform = ?", platform)
	}
	if err := sess.Asc("id").Find(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *XormStore) UpsertProblem(ctx context.Context, p *model.Problem) error {
	old, err := s.FindProblem(ctx, p.Platform, p.PID)
	if err != nil && !IsNotFound(err) {
		return err
	}
	if old == nil {
		if p.Type == "" {
			p.Type = model.PROGRAMMING
		}
		p.ID = 0
		_, err := s.engine.Context(ctx).InsertOne(p)
		return err
	}
	p.ID = old.ID
	mergeProblem(p, old)
	_, err = s.engine.Context(ctx).ID(p.ID).Cols("name", "type", "points", "url").Update(p)
	return err
}

//新看到的信息为空时保留旧值
func mergeProblem(p, old *model.Problem) {
	if p.Name == "" {
		p.Name = old.Name
	}
	if p.Type == "" {
		p.Type = old.Type
	}
	if p.Points == nil {
		p.Points = old.Points
	}
	if p.URL == "" {
		p.URL = old.URL
	}
}

func (s *XormStore) CountProblems(ctx context.Context) (int64, error) {
	return s.engine.Context(ctx).Count(new(model.Problem))
}
