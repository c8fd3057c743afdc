package dao

import (
	"CodingTracker/model"
	"context"
	"time"
)

const attemptBatch = 100

func (s *XormStore) ListAttempts(ctx context.Context) ([]model.Attempt, error) {
	list := make([]model.Attempt, 0)
	if err := s.engine.Context(ctx).Find(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *XormStore) ListAttemptsByUser(ctx context.Context, userID int64) ([]model.Attempt, error) {
	list := make([]model.Attempt, 0)
	if err := s.engine.Context(ctx).Where("user_id = ?", userID).Desc("attempt_time").Find(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveAttempts 在一个事务里分批插入
func (s *XormStore) SaveAttempts(ctx context.Context, attempts []model.Attempt) (int, error) {
	if len(attempts) == 0 {
		return 0, nil
	}
	sess := s.engine.NewSession().Context(ctx)
	defer sess.Close()
	if err := sess.Begin(); err != nil {
		return 0, err
	}
	inserted := 0
	for start := 0; start < len(attempts); start += attemptBatch {
		end := start + attemptBatch
		if end > len(attempts) {
			end = len(attempts)
		}
		batch := make([]model.Attempt, end-start)
		copy(batch, attempts[start:end])
		for i := range batch {
			batch[i].ID = 0
		}
		n, err := sess.Insert(&batch)
		if err != nil {
			sess.Rollback()
			return 0, err
		}
		inserted += int(n)
	}
	if err := sess.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *XormStore) CountAttempts(ctx context.Context) (int64, error) {
	return s.engine.Context(ctx).Count(new(model.Attempt))
}

func (s *XormStore) CountByUserAndPlatform(ctx context.Context, start, end time.Time, onlyAC bool) ([]model.TryCount, error) {
	rows := make([]model.TryCount, 0)
	sess := s.engine.Context(ctx).Table(new(model.Attempt)).
		Select("user_id, platform, count(*) as count").
		Where("attempt_time >= ? AND attempt_time < ?", s.dbTime(start), s.dbTime(end))
	if onlyAC {
		sess = sess.And("result = ?", model.AC)
	}
	if err := sess.GroupBy("user_id, platform").Find(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
