package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codingtracker_fetch_attempts_total",
		Help: "单次 http 请求的结果, outcome 为 ok/error/empty",
	}, []string{"outcome"})

	skippedUnits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codingtracker_crawler_skipped_total",
		Help: "抓取或解析失败被跳过的账号/页面/题目",
	}, []string{"platform", "unit"})
)
