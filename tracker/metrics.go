package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codingtracker_refresh_runs_total",
		Help: "同步次数, kind 为 all/user/catalog, status 为 ok/error/rejected",
	}, []string{"kind", "status"})

	refreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codingtracker_refresh_duration_seconds",
		Help:    "一次同步的耗时",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"kind"})

	taskFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codingtracker_task_failures_total",
		Help: "失败的 (平台,用户) 任务, reason 为 timeout/failure/config/catalog",
	}, []string{"platform", "reason"})

	attemptsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codingtracker_attempts_inserted_total",
		Help: "新写入的尝试记录数",
	})

	updatingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codingtracker_full_refresh_running",
		Help: "是否有全量同步正在进行",
	})
)
