package dao

import (
	"CodingTracker/model"
	"context"
)

func (r *RedisStats) SaveStats(ctx context.Context, s *model.SystemStats) error {
	return putObjToRedis(ctx, r.rdb, r.key, s, 0)
}

// LoadStats 没有数据时返回零值
func (r *RedisStats) LoadStats(ctx context.Context) (*model.SystemStats, error) {
	s := &model.SystemStats{}
	if err := getObjFromRedis(ctx, r.rdb, r.key, s); err != nil {
		return nil, err
	}
	return s, nil
}
