package crawler

import (
	"CodingTracker/common"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Mode int

const (
	ModeText     Mode = iota //原始文本, json 接口
	ModeDocument             //html, 解析成 goquery 文档
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

type Request struct {
	URL     string
	Mode    Mode
	Cookies map[string]string
}

type Response struct {
	Body string
	Doc  *goquery.Document //只有 ModeDocument 才有
}

// Fetcher 带重试的网络访问, 不关心具体平台
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

type HTTPFetcher struct {
	client  *http.Client
	times   int
	timeout time.Duration
	backoff time.Duration
	limiter *rate.Limiter
	log     *logrus.Entry
}

func NewHTTPFetcher(cfg common.SyncConfig, log *logrus.Entry) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  &http.Client{},
		times:   cfg.FetchTimes,
		timeout: cfg.FetchTimeout,
		backoff: cfg.FetchBackoff,
		log:     log.WithField("component", "fetcher"),
	}
	if f.times <= 0 {
		f.times = 5
	}
	if f.timeout <= 0 {
		f.timeout = 8 * time.Second
	}
	if cfg.FetchQPS > 0 {
		burst := int(cfg.FetchQPS)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.FetchQPS), burst)
	}
	return f
}

// RepeatDo 最多执行 times 次 fn, fn 返回 ok 且没有错误时成功;
// 全部失败时返回最后一次的错误, 不会返回空的成功结果
func RepeatDo[T any](ctx context.Context, times int, backoff time.Duration, fn func(ctx context.Context) (T, bool, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < times; i++ {
		if i > 0 && backoff > 0 {
			select {
			case <-ctx.Done():
				return zero, ctxErr(ctx, lastErr)
			case <-time.After(backoff):
			}
		}
		if ctx.Err() != nil {
			return zero, ctxErr(ctx, lastErr)
		}
		v, ok, err := fn(ctx)
		if err == nil && ok {
			return v, nil
		}
		if err == nil {
			err = common.ErrEmptyResponse
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = common.ErrEmptyResponse
	}
	return zero, fmt.Errorf("%w: 重试%d次: %w", common.ErrFetchFailure, times, lastErr)
}

func ctxErr(ctx context.Context, lastErr error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrFetchTimeout, lastErr)
	}
	return fmt.Errorf("%w: %v", ctx.Err(), lastErr)
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	return RepeatDo(ctx, f.times, f.backoff, func(ctx context.Context) (*Response, bool, error) {
		resp, err := f.once(ctx, req)
		switch {
		case err != nil:
			fetchAttempts.WithLabelValues("error").Inc()
			f.log.WithError(err).WithField("url", req.URL).Debug("请求失败")
			return nil, false, err
		case resp == nil:
			fetchAttempts.WithLabelValues("empty").Inc()
			f.log.WithField("url", req.URL).Debug("返回为空")
			return nil, false, nil
		}
		fetchAttempts.WithLabelValues("ok").Inc()
		return resp, true, nil
	})
}

//单次请求, 内容为空时返回 nil, nil
func (f *HTTPFetcher) once(ctx context.Context, req Request) (*Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if cookie := CookieHeader(req.Cookies); cookie != "" {
		httpReq.Header.Set("Cookie", cookie)
	}
	res, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%s 返回状态码 %d", req.URL, res.StatusCode)
	}
	bt, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	body := string(bt)
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	if req.Mode == ModeText {
		return &Response{Body: body}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	if strings.TrimSpace(doc.Text()) == "" && doc.Find("body *").Length() == 0 {
		return nil, nil
	}
	return &Response{Body: body, Doc: doc}, nil
}

// ParseCookies "k1=v1; k2=v2" 转成 map
func ParseCookies(header string) map[string]string {
	ret := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		idx := strings.Index(part, "=")
		if idx <= 0 {
			continue
		}
		ret[part[:idx]] = part[idx+1:]
	}
	return ret
}

// CookieHeader 按 key 排序拼成一个 Cookie 头
func CookieHeader(cookies map[string]string) string {
	if len(cookies) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cookies))
	for k := range cookies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + cookies[k]
	}
	return strings.Join(parts, "; ")
}
