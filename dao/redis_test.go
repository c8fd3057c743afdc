package dao

import (
	"CodingTracker/model"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStats(t *testing.T) (*RedisStats, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStats(rdb, ""), mr
}

func TestRedisStats(t *testing.T) {
	rs, mr := newRedisStats(t)
	ctx := context.Background()

	//还没有统计时返回零值
	empty, err := rs.LoadStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.UserCount)
	assert.True(t, empty.LastUpdateTime.IsZero())

	now := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, rs.SaveStats(ctx, &model.SystemStats{UserCount: 3, SumProblemCount: 10, SumTryCount: 42, LastUpdateTime: now}))
	assert.Equal(t, "42", mr.HGet(STATS_REDIS_KEY, "sum_try_count"))

	got, err := rs.LoadStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.UserCount)
	assert.EqualValues(t, 10, got.SumProblemCount)
	assert.EqualValues(t, 42, got.SumTryCount)
	assert.True(t, got.LastUpdateTime.Equal(now))
}

func TestRedisObjRejectsNonStruct(t *testing.T) {
	rs, _ := newRedisStats(t)
	ctx := context.Background()
	assert.Error(t, putObjToRedis(ctx, rs.rdb, "k", 1, 0))
	var p *model.SystemStats
	assert.Error(t, putObjToRedis(ctx, rs.rdb, "k", p, 0))
	assert.Error(t, getObjFromRedis(ctx, rs.rdb, "k", model.SystemStats{}))
}

func TestRedisObjExpire(t *testing.T) {
	rs, mr := newRedisStats(t)
	ctx := context.Background()
	require.NoError(t, putObjToRedis(ctx, rs.rdb, "tmp", &model.SystemStats{UserCount: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("tmp"))
}
