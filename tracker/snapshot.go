package tracker

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"time"
)

// SaveSnapshot 记录当天的用户数、题目数和尝试数, 同一天重复保存会覆盖
func (t *Tracker) SaveSnapshot(ctx context.Context) (*model.SystemState, error) {
	users, problems, tries, err := t.counts(ctx)
	if err != nil {
		return nil, err
	}
	state := &model.SystemState{Date: common.DateOf(t.now()), UserCount: users, SumProblemCount: problems, SumTryCount: tries}
	if err := t.store.SaveState(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// StartDailySnapshot 启动时先存一次, 之后每隔 interval 检查一次, 日期变了就再存;
// 没有手动同步的日子也有快照. Close 时退出
func (t *Tracker) StartDailySnapshot(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t.loops.Add(1)
	go func() {
		defer t.loops.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		last := ""
		for {
			if date := common.DateOf(t.now()); date != last {
				if state, err := t.SaveSnapshot(t.bgCtx); err != nil {
					t.log.WithError(err).Error("每日快照保存失败")
				} else {
					last = state.Date
					t.log.WithField("date", state.Date).Info("每日快照已保存")
				}
			}
			select {
			case <-t.bgCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
