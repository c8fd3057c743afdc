package tracker

import (
	"CodingTracker/common"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

type outcome[T any] struct {
	v   T
	err error
}

// callWithTimeout 超时后放弃这个任务, 它的结果直接丢掉
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	ch := make(chan outcome[T], 1)
	go func() {
		v, err := fn(tctx)
		ch <- outcome[T]{v, err}
	}()
	select {
	case o := <-ch:
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w: %v", common.ErrFetchTimeout, tctx.Err())
		}
		return o.v, o.err
	case <-tctx.Done():
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w: %v", common.ErrFetchTimeout, tctx.Err())
		}
		return zero, tctx.Err()
	}
}

// runBounded 最多 limit 个任务同时执行, 等待全部结束;
// 结果按任务下标存放, 失败的任务位置为零值
func runBounded[T any](ctx context.Context, limit, n int, task func(ctx context.Context, i int) (T, error), onErr func(i int, err error)) ([]T, int) {
	results := make([]T, n)
	var failed int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := task(gctx, i)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				onErr(i, err)
				return nil
			}
			results[i] = v
			return nil
		})
	}
	_ = g.Wait()
	return results, int(failed)
}
