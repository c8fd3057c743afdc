package tracker

import (
	"CodingTracker/common"
	"CodingTracker/crawler"
	"CodingTracker/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCatalogUnion(t *testing.T) {
	hdu := &fakeAdapter{
		platform: model.HDU,
		catalog: func(ctx context.Context) ([]model.Problem, error) {
			return []model.Problem{
				{Platform: model.HDU, PID: "1000", Name: "A + B Problem"},
				{Platform: model.HDU, PID: "1001", Name: "Sum Problem"},
			}, nil
		},
	}
	cf := &fakeAdapter{
		platform: model.CODEFORCES,
		catalog: func(ctx context.Context) ([]model.Problem, error) {
			return nil, common.ErrFetchFailure
		},
	}
	tr, store := newTestTracker(t, cf, hdu)
	ctx := context.Background()
	require.NoError(t, store.UpsertProblem(ctx, &model.Problem{Platform: model.HDU, PID: "1000"}))
	require.NoError(t, store.UpsertProblem(ctx, &model.Problem{Platform: model.HDU, PID: "999", Name: "只在本地"}))
	require.NoError(t, store.UpsertProblem(ctx, &model.Problem{Platform: model.CODEFORCES, PID: "1700A"}))

	res, err := tr.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fresh)
	assert.Equal(t, 1, res.Updated)
	//HDU 999 和 CF 1700A 这次没有看到, 仍然保留
	assert.Equal(t, 2, res.Retained)
	assert.EqualValues(t, 4, res.Total)
	assert.Equal(t, []model.Platform{model.CODEFORCES}, res.FailedPlatforms)

	p, err := store.FindProblem(ctx, model.HDU, "1000")
	require.NoError(t, err)
	assert.Equal(t, "A + B Problem", p.Name)
	_, err = store.FindProblem(ctx, model.HDU, "999")
	assert.NoError(t, err)
}

type backfillAdapter struct {
	fakeAdapter
	got crawler.Range
}

func (b *backfillAdapter) Backfill(ctx context.Context, r crawler.Range) ([]model.Problem, error) {
	b.got = r
	ret := make([]model.Problem, 0)
	for _, pid := range r.PIDs {
		ret = append(ret, model.Problem{Platform: model.POJ, PID: pid, Name: "poj " + pid})
	}
	return ret, nil
}

func TestBackfill(t *testing.T) {
	poj := &backfillAdapter{fakeAdapter: fakeAdapter{platform: model.POJ}}
	tr, store := newTestTracker(t, poj)
	ctx := context.Background()

	n, err := tr.Backfill(ctx, model.POJ, crawler.Range{PIDs: []string{"1000", "1001"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1000", "1001"}, poj.got.PIDs)
	cnt, err := store.CountProblems(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	_, err = tr.Backfill(ctx, model.UVA, crawler.All)
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	n, err = tr.Backfill(ctx, model.POJ, crawler.Range{Start: 5, End: 1})
	require.NoError(t, err)
	assert.Zero(t, n)
}
