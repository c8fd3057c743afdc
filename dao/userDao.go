package dao

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"fmt"
	"time"
)

func (s *XormStore) dbTime(t time.Time) string {
	loc := s.engine.DatabaseTZ
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(common.TIME_FORMAT)
}

func (s *XormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	if err := s.engine.Context(ctx).Asc("id").Find(&users); err != nil {
		return nil, err
	}
	accounts := make([]model.UserOJ, 0)
	if err := s.engine.Context(ctx).Find(&accounts); err != nil {
		return nil, err
	}
	byUser := make(map[int64][]model.UserOJ)
	for _, acc := range accounts {
		byUser[acc.UserID] = append(byUser[acc.UserID], acc)
	}
	for i := range users {
		users[i].Accounts = byUser[users[i].ID]
	}
	return users, nil
}

func (s *XormStore) getUser(ctx context.Context, cond *model.User) (*model.User, error) {
	u := *cond
	ok, err := s.engine.Context(ctx).Get(&u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("用户: %w", common.ErrNotFound)
	}
	u.Accounts = make([]model.UserOJ, 0)
	if err := s.engine.Context(ctx).Where("user_id = ?", u.ID).Find(&u.Accounts); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *XormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.getUser(ctx, &model.User{ID: id})
}

func (s *XormStore) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, &model.User{Username: username})
}

func (s *XormStore) CreateUser(ctx context.Context, u *model.User) error {
	sess := s.engine.NewSession().Context(ctx)
	defer sess.Close()
	if err := sess.Begin(); err != nil {
		return err
	}
	if _, err := sess.InsertOne(u); err != nil {
		sess.Rollback()
		return err
	}
	for i := range u.Accounts {
		u.Accounts[i].UserID = u.ID
		if _, err := sess.InsertOne(&u.Accounts[i]); err != nil {
			sess.Rollback()
			return err
		}
	}
	return sess.Commit()
}

func (s *XormStore) UpdateLastAttemptTime(ctx context.Context, userID int64, t time.Time) (bool, error) {
	n, err := s.engine.Context(ctx).
		Where("id = ?", userID).
		And("(last_attempt_time IS NULL OR last_attempt_time < ?)", s.dbTime(t)).
		Cols("last_attempt_time").
		Update(&model.User{LastAttemptTime: t})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *XormStore) CountUsers(ctx context.Context) (int64, error) {
	return s.engine.Context(ctx).Count(new(model.User))
}
