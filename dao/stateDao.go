package dao

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"fmt"
)

func (s *XormStore) SaveState(ctx context.Context, st *model.SystemState) error {
	old := &model.SystemState{Date: st.Date}
	ok, err := s.engine.Context(ctx).Get(old)
	if err != nil {
		return err
	}
	if !ok {
		st.ID = 0
		_, err = s.engine.Context(ctx).InsertOne(st)
		return err
	}
	st.ID = old.ID
	_, err = s.engine.Context(ctx).ID(st.ID).Cols("user_count", "sum_problem_count", "sum_try_count").Update(st)
	return err
}

// ListStates 最近 limit 天, 按日期升序
func (s *XormStore) ListStates(ctx context.Context, limit int) ([]model.SystemState, error) {
	list := make([]model.SystemState, 0)
	sess := s.engine.Context(ctx).Desc("date")
	if limit > 0 {
		sess = sess.Limit(limit)
	}
	if err := sess.Find(&list); err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (s *XormStore) SaveCFUserInfos(ctx context.Context, infos []model.CFUserInfo) error {
	for i := range infos {
		info := &infos[i]
		exist, err := s.engine.Context(ctx).Exist(&model.CFUserInfo{Handle: info.Handle})
		if err != nil {
			return err
		}
		if exist {
			_, err = s.engine.Context(ctx).ID(info.Handle).AllCols().Update(info)
		} else {
			_, err = s.engine.Context(ctx).InsertOne(info)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *XormStore) GetCFUserInfo(ctx context.Context, handle string) (*model.CFUserInfo, error) {
	info := &model.CFUserInfo{Handle: handle}
	ok, err := s.engine.Context(ctx).Get(info)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("cf 用户 %s: %w", handle, common.ErrNotFound)
	}
	return info, nil
}
