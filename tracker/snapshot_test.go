package tracker

import (
	"CodingTracker/model"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSnapshot(t *testing.T) {
	tr, store := newTestTracker(t, aliceAdapter())
	tr.now = func() time.Time { return t1 }
	alice := addUser(t, store, "alice", model.UserOJ{Platform: model.CODEFORCES, AccountName: "alice_cf"})
	ctx := context.Background()

	state, err := tr.SaveSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2023-03-01", state.Date)
	assert.EqualValues(t, 1, state.UserCount)
	assert.Zero(t, state.SumTryCount)

	//同一天再存一次是覆盖
	_, err = tr.RefreshUser(ctx, alice.ID)
	require.NoError(t, err)
	_, err = tr.SaveSnapshot(ctx)
	require.NoError(t, err)
	states, err := tr.StateHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.EqualValues(t, 2, states[0].SumTryCount)
}

func TestDailySnapshotWithoutRefresh(t *testing.T) {
	tr, _ := newTestTracker(t, aliceAdapter())
	var clock atomic.Int64
	clock.Store(t1.Unix())
	tr.now = func() time.Time { return time.Unix(clock.Load(), 0) }
	ctx := context.Background()

	history := func() []model.SystemState {
		states, err := tr.StateHistory(ctx, 0)
		require.NoError(t, err)
		return states
	}

	tr.StartDailySnapshot(5 * time.Millisecond)
	require.Eventually(t, func() bool { return len(history()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "2023-03-01", history()[0].Date)

	//没有任何同步, 跨天后也会有新的快照
	clock.Store(t2.Unix())
	require.Eventually(t, func() bool { return len(history()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "2023-03-02", history()[1].Date)

	//Close 之后不再保存
	tr.Close()
	clock.Store(t2.Add(24 * time.Hour).Unix())
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, history(), 2)
}
