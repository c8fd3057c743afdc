package crawler

import (
	"CodingTracker/common"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(times int) *HTTPFetcher {
	cfg := common.DefaultSyncConfig()
	cfg.FetchTimes = times
	cfg.FetchBackoff = time.Millisecond
	cfg.FetchTimeout = 2 * time.Second
	return NewHTTPFetcher(cfg, common.DiscardLogger())
}

func TestRepeatDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	v, err := RepeatDo(context.Background(), 5, 0, func(ctx context.Context) (string, bool, error) {
		calls++
		if calls < 3 {
			return "", false, errors.New("connection reset")
		}
		return "ok", true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestRepeatDoExhausted(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := RepeatDo(context.Background(), 3, 0, func(ctx context.Context) (int, bool, error) {
		calls++
		return 0, false, boom
	})
	assert.Equal(t, 3, calls)
	assert.True(t, errors.Is(err, common.ErrFetchFailure))
	assert.True(t, errors.Is(err, boom))

	//一直为空也算失败, 不会返回空结果
	_, err = RepeatDo(context.Background(), 2, 0, func(ctx context.Context) (*Response, bool, error) {
		return nil, false, nil
	})
	assert.True(t, errors.Is(err, common.ErrFetchFailure))
	assert.True(t, errors.Is(err, common.ErrEmptyResponse))
}

func TestRepeatDoStopsOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := RepeatDo(ctx, 100, 10*time.Millisecond, func(ctx context.Context) (int, bool, error) {
		return 0, false, errors.New("slow")
	})
	assert.True(t, errors.Is(err, common.ErrFetchTimeout))
}

func TestHTTPFetcherRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "a=1; b=2", r.Header.Get("Cookie"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte("<html><body><h1>hello</h1></body></html>"))
	}))
	defer srv.Close()

	resp, err := testFetcher(5).Fetch(context.Background(), Request{
		URL:     srv.URL,
		Mode:    ModeDocument,
		Cookies: map[string]string{"b": "2", "a": "1"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
	assert.Equal(t, "hello", resp.Doc.Find("h1").Text())
}

func TestHTTPFetcherEmptyBody(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("   "))
	}))
	defer srv.Close()

	_, err := testFetcher(3).Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeText})
	assert.True(t, errors.Is(err, common.ErrEmptyResponse))
	assert.True(t, errors.Is(err, common.ErrFetchFailure))
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestHTTPFetcherServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testFetcher(2).Fetch(context.Background(), Request{URL: srv.URL, Mode: ModeText})
	assert.True(t, errors.Is(err, common.ErrFetchFailure))
	assert.Contains(t, err.Error(), "500")
}

func TestCookies(t *testing.T) {
	m := ParseCookies("__client_id=abc; _uid=42 ;broken; =x")
	assert.Equal(t, map[string]string{"__client_id": "abc", "_uid": "42"}, m)
	assert.Equal(t, "__client_id=abc; _uid=42", CookieHeader(m))
	assert.Equal(t, "", CookieHeader(nil))
}
