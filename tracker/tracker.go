package tracker

import (
	"CodingTracker/common"
	"CodingTracker/dao"
	"CodingTracker/extoj"
	"CodingTracker/model"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TriggerStatus int

const (
	Accepted TriggerStatus = iota
	Rejected               //已经有全量同步在跑
)

func (s TriggerStatus) String() string {
	if s == Accepted {
		return "accepted"
	}
	return "rejected"
}

// RefreshResult 一次同步的统计, 不包含原始数据
type RefreshResult struct {
	RunID       string    `json:"run_id"`
	Users       int       `json:"users"`
	Tasks       int       `json:"tasks"`
	FailedTasks int       `json:"failed_tasks"`
	Fetched     int       `json:"fetched"`
	Inserted    int       `json:"inserted"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

type Config struct {
	PoolSize    int
	TaskTimeout time.Duration
}

type Tracker struct {
	store    dao.Store
	stats    dao.StatsStore
	adapters []extoj.Adapter
	cfg      Config
	log      *logrus.Entry

	updating atomic.Bool
	writeMu  sync.Mutex //读库-求差-写库 这一段串行
	wg       sync.WaitGroup
	loops    sync.WaitGroup //定时任务, 只在 Close 时等待
	bgCtx    context.Context
	bgCancel context.CancelFunc

	lastMu sync.RWMutex
	last   *RefreshResult

	now func() time.Time
}

func New(store dao.Store, stats dao.StatsStore, adapters []extoj.Adapter, cfg Config, log *logrus.Entry) *Tracker {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		store:    store,
		stats:    stats,
		adapters: adapters,
		cfg:      cfg,
		log:      log.WithField("component", "tracker"),
		bgCtx:    ctx,
		bgCancel: cancel,
		now:      time.Now,
	}
}

func (t *Tracker) Adapters() []extoj.Adapter {
	return t.adapters
}

// TriggerFullRefresh 异步全量同步, 已经在跑时直接拒绝
func (t *Tracker) TriggerFullRefresh() TriggerStatus {
	if !t.updating.CompareAndSwap(false, true) {
		refreshRuns.WithLabelValues("all", "rejected").Inc()
		t.log.Info("全量同步正在进行, 本次请求被拒绝")
		return Rejected
	}
	updatingGauge.Set(1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			updatingGauge.Set(0)
			t.updating.Store(false)
		}()
		if _, err := t.RefreshAllUsers(t.bgCtx); err != nil {
			t.log.WithError(err).Error("全量同步失败")
		}
	}()
	return Accepted
}

func (t *Tracker) Updating() bool {
	return t.updating.Load()
}

// Wait 等待后台的同步结束
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close 取消后台同步并等待退出
func (t *Tracker) Close() {
	t.bgCancel()
	t.wg.Wait()
	t.loops.Wait()
}

func (t *Tracker) LastResult() *RefreshResult {
	t.lastMu.RLock()
	defer t.lastMu.RUnlock()
	if t.last == nil {
		return nil
	}
	c := *t.last
	return &c
}

func (t *Tracker) setLast(r *RefreshResult) {
	t.lastMu.Lock()
	defer t.lastMu.Unlock()
	c := *r
	t.last = &c
}

// RefreshAllUsers 同步所有用户, 结束后更新统计
func (t *Tracker) RefreshAllUsers(ctx context.Context) (*RefreshResult, error) {
	users, err := t.store.ListUsers(ctx)
	if err != nil {
		refreshRuns.WithLabelValues("all", "error").Inc()
		return nil, err
	}
	res, err := t.refresh(ctx, "all", users, 0)
	if err != nil {
		return nil, err
	}
	t.updateStats(ctx)
	t.refreshProfiles(ctx, users)
	return res, nil
}

// RefreshUser 只同步一个用户
func (t *Tracker) RefreshUser(ctx context.Context, userID int64) (*RefreshResult, error) {
	user, err := t.store.GetUser(ctx, userID)
	if err != nil {
		refreshRuns.WithLabelValues("user", "error").Inc()
		return nil, err
	}
	return t.refresh(ctx, "user", []model.User{*user}, userID)
}

func (t *Tracker) RefreshUserByName(ctx context.Context, username string) (*RefreshResult, error) {
	user, err := t.store.GetUserByName(ctx, username)
	if err != nil {
		refreshRuns.WithLabelValues("user", "error").Inc()
		return nil, err
	}
	return t.refresh(ctx, "user", []model.User{*user}, user.ID)
}

type task struct {
	adapter extoj.Adapter
	user    *model.User
}

//usable 过滤掉没有链接配置的平台, 只影响这个平台
func (t *Tracker) usable(log *logrus.Entry) []extoj.Adapter {
	ret := make([]extoj.Adapter, 0, len(t.adapters))
	for _, a := range t.adapters {
		if _, err := a.LinkConfig(); err != nil {
			taskFailures.WithLabelValues(string(a.Platform()), "config").Inc()
			log.WithError(err).WithField("platform", a.Platform()).Error("平台链接配置缺失, 跳过该平台")
			continue
		}
		ret = append(ret, a)
	}
	return ret
}

// refresh userID 为 0 时表示所有用户
func (t *Tracker) refresh(ctx context.Context, kind string, users []model.User, userID int64) (*RefreshResult, error) {
	res := &RefreshResult{RunID: uuid.NewString(), Users: len(users), StartedAt: t.now()}
	log := t.log.WithFields(logrus.Fields{"run_id": res.RunID, "kind": kind})
	log.WithField("users", len(users)).Info("开始同步")

	adapters := t.usable(log)
	tasks := make([]task, 0, len(adapters)*len(users))
	for _, a := range adapters {
		for i := range users {
			tasks = append(tasks, task{adapter: a, user: &users[i]})
		}
	}
	res.Tasks = len(tasks)

	batches, failed := runBounded(ctx, t.cfg.PoolSize, len(tasks),
		func(ctx context.Context, i int) ([]model.Attempt, error) {
			tk := tasks[i]
			return callWithTimeout(ctx, t.cfg.TaskTimeout, func(ctx context.Context) ([]model.Attempt, error) {
				return tk.adapter.GetUserAttempts(ctx, tk.user)
			})
		},
		func(i int, err error) {
			tk := tasks[i]
			reason := "failure"
			if errors.Is(err, common.ErrFetchTimeout) {
				reason = "timeout"
			}
			taskFailures.WithLabelValues(string(tk.adapter.Platform()), reason).Inc()
			log.WithError(err).WithFields(logrus.Fields{
				"platform": tk.adapter.Platform(),
				"user":     tk.user.Username,
			}).Error("抓取任务失败")
		})
	res.FailedTasks = failed

	merged := mergeAttempts(batches)
	res.Fetched = len(merged)
	inserted, err := t.persist(ctx, log, merged, userID)
	res.FinishedAt = t.now()
	refreshDuration.WithLabelValues(kind).Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	if err != nil {
		refreshRuns.WithLabelValues(kind, "error").Inc()
		log.WithError(err).Error("写入尝试记录失败")
		return nil, err
	}
	res.Inserted = inserted
	refreshRuns.WithLabelValues(kind, "ok").Inc()
	t.setLast(res)
	log.WithFields(logrus.Fields{
		"tasks":    res.Tasks,
		"failed":   res.FailedTasks,
		"fetched":  res.Fetched,
		"inserted": res.Inserted,
	}).Info("同步完成")
	return res, nil
}

// persist 题目落库并对齐标签, 然后写入新的尝试记录, 更新用户的最近尝试时间
func (t *Tracker) persist(ctx context.Context, log *logrus.Entry, merged []model.Attempt, userID int64) (int, error) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	ids := t.saveProblems(ctx, log, sightings(merged))
	ready := make([]model.Attempt, 0, len(merged))
	for _, a := range merged {
		id, ok := ids[model.ProblemKey{Platform: a.Platform, PID: a.PID}]
		if !ok {
			//题目没能落库, 下次同步再写
			continue
		}
		a.ProblemID = id
		a.Problem = nil
		ready = append(ready, a)
	}

	var persisted []model.Attempt
	var err error
	if userID != 0 {
		persisted, err = t.store.ListAttemptsByUser(ctx, userID)
	} else {
		persisted, err = t.store.ListAttempts(ctx)
	}
	if err != nil {
		return 0, err
	}
	fresh := newAttempts(ready, persisted)
	n, err := t.store.SaveAttempts(ctx, fresh)
	if err != nil {
		return 0, err
	}
	attemptsInserted.Add(float64(n))

	for uid, latest := range latestByUser(fresh) {
		if _, err := t.store.UpdateLastAttemptTime(ctx, uid, latest); err != nil {
			log.WithError(err).WithField("user_id", uid).Warn("更新最近尝试时间失败")
		}
	}
	return n, nil
}

// saveProblems 返回成功落库的题目 id, 单道题失败不影响其他题
func (t *Tracker) saveProblems(ctx context.Context, log *logrus.Entry, problems []*model.Problem) map[model.ProblemKey]int64 {
	ids := make(map[model.ProblemKey]int64, len(problems))
	for _, p := range problems {
		if err := t.store.UpsertProblem(ctx, p); err != nil {
			log.WithError(err).WithFields(logrus.Fields{"platform": p.Platform, "pid": p.PID}).Error("题目写入失败")
			continue
		}
		ids[p.Key()] = p.ID
		if !p.TagsObserved {
			continue
		}
		if _, _, err := dao.ReconcileTags(ctx, t.store, p.ID, p.Tags); err != nil {
			log.WithError(err).WithFields(logrus.Fields{"platform": p.Platform, "pid": p.PID}).Warn("标签对齐失败")
		}
	}
	return ids
}

func (t *Tracker) counts(ctx context.Context) (users, problems, tries int64, err error) {
	users, err1 := t.store.CountUsers(ctx)
	problems, err2 := t.store.CountProblems(ctx)
	tries, err3 := t.store.CountAttempts(ctx)
	return users, problems, tries, errors.Join(err1, err2, err3)
}

// updateStats 重新计算统计, 写到 redis 和当天的快照
func (t *Tracker) updateStats(ctx context.Context) {
	now := t.now()
	users, problems, tries, err := t.counts(ctx)
	if err != nil {
		t.log.WithError(err).Error("统计失败")
		return
	}
	stats := &model.SystemStats{UserCount: users, SumProblemCount: problems, SumTryCount: tries, LastUpdateTime: now}
	if err := t.stats.SaveStats(ctx, stats); err != nil {
		t.log.WithError(err).Error("保存统计失败")
	}
	state := &model.SystemState{Date: common.DateOf(now), UserCount: users, SumProblemCount: problems, SumTryCount: tries}
	if err := t.store.SaveState(ctx, state); err != nil {
		t.log.WithError(err).Error("保存每日快照失败")
	}
}

// refreshProfiles 拉取用户资料, 目前只有 codeforces
func (t *Tracker) refreshProfiles(ctx context.Context, users []model.User) {
	for _, a := range t.adapters {
		src, ok := a.(extoj.ProfileSource)
		if !ok {
			continue
		}
		if _, err := a.LinkConfig(); err != nil {
			continue
		}
		handles := make([]string, 0)
		for i := range users {
			handles = append(handles, users[i].Handles(a.Platform())...)
		}
		if len(handles) == 0 {
			continue
		}
		infos, err := callWithTimeout(ctx, t.cfg.TaskTimeout, func(ctx context.Context) ([]model.CFUserInfo, error) {
			return src.FetchUserInfos(ctx, handles)
		})
		if err != nil {
			t.log.WithError(err).WithField("platform", a.Platform()).Warn("用户资料抓取失败")
			continue
		}
		if err := t.store.SaveCFUserInfos(ctx, infos); err != nil {
			t.log.WithError(err).Warn("用户资料保存失败")
		}
	}
}

// LastRefreshTime 上次全量同步完成的时间, 没有时为零值
func (t *Tracker) LastRefreshTime(ctx context.Context) (time.Time, error) {
	s, err := t.stats.LoadStats(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return s.LastUpdateTime, nil
}

func (t *Tracker) Stats(ctx context.Context) (*model.SystemStats, error) {
	return t.stats.LoadStats(ctx)
}

// CountTries [start, end) 内每个用户每个平台的尝试数或通过数
func (t *Tracker) CountTries(ctx context.Context, start, end time.Time, onlyAC bool) ([]model.TryCount, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: 开始时间必须早于结束时间", common.ErrBadRequest)
	}
	return t.store.CountByUserAndPlatform(ctx, start, end, onlyAC)
}

func (t *Tracker) UserAttempts(ctx context.Context, username string) (*model.User, []model.Attempt, error) {
	user, err := t.store.GetUserByName(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	attempts, err := t.store.ListAttemptsByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, attempts, nil
}

// StateHistory 最近 limit 天的快照, 按日期升序
func (t *Tracker) StateHistory(ctx context.Context, limit int) ([]model.SystemState, error) {
	return t.store.ListStates(ctx, limit)
}

func (t *Tracker) CFUserInfo(ctx context.Context, handle string) (*model.CFUserInfo, error) {
	return t.store.GetCFUserInfo(ctx, handle)
}
