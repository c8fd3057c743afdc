package dao

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore 内存实现, 用于本地调试和测试, 同时实现了 StatsStore
type MemoryStore struct {
	mu sync.RWMutex

	users       map[int64]*model.User
	nextUserID  int64
	problems    map[model.ProblemKey]*model.Problem
	nextProbID  int64
	tags        map[string]int64
	nextTagID   int64
	problemTags map[int64]map[int64]bool
	attempts    map[model.AttemptKey]model.Attempt
	nextAttID   int64
	states      map[string]model.SystemState
	cfUsers     map[string]model.CFUserInfo
	stats       *model.SystemStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*model.User),
		problems:    make(map[model.ProblemKey]*model.Problem),
		tags:        make(map[string]int64),
		problemTags: make(map[int64]map[int64]bool),
		attempts:    make(map[model.AttemptKey]model.Attempt),
		states:      make(map[string]model.SystemState),
		cfUsers:     make(map[string]model.CFUserInfo),
	}
}

func copyUser(u *model.User) model.User {
	c := *u
	c.Accounts = append([]model.UserOJ(nil), u.Accounts...)
	return c
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		ret = append(ret, copyUser(u))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("用户: %w", common.ErrNotFound)
	}
	c := copyUser(u)
	return &c, nil
}

func (m *MemoryStore) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			c := copyUser(u)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("用户: %w", common.ErrNotFound)
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, old := range m.users {
		if old.Username == u.Username {
			return fmt.Errorf("用户名 %s 已存在", u.Username)
		}
	}
	m.nextUserID++
	u.ID = m.nextUserID
	u.CreatedAt = time.Now()
	for i := range u.Accounts {
		u.Accounts[i].ID = int64(i + 1)
		u.Accounts[i].UserID = u.ID
	}
	c := copyUser(u)
	m.users[u.ID] = &c
	return nil
}

func (m *MemoryStore) UpdateLastAttemptTime(ctx context.Context, userID int64, t time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return false, fmt.Errorf("用户: %w", common.ErrNotFound)
	}
	if !u.LastAttemptTime.IsZero() && !u.LastAttemptTime.Before(t) {
		return false, nil
	}
	u.LastAttemptTime = t
	return true, nil
}

func (m *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryStore) FindProblem(ctx context.Context, platform model.Platform, pid string) (*model.Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.problems[model.ProblemKey{Platform: platform, PID: pid}]
	if !ok {
		return nil, fmt.Errorf("题目 %s %s: %w", platform, pid, common.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (m *MemoryStore) FindProblems(ctx context.Context, platform model.Platform, pids []string) (map[string]*model.Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make(map[string]*model.Problem)
	for _, pid := range pids {
		if p, ok := m.problems[model.ProblemKey{Platform: platform, PID: pid}]; ok {
			c := *p
			ret[pid] = &c
		}
	}
	return ret, nil
}

func (m *MemoryStore) ListProblems(ctx context.Context, platform model.Platform) ([]model.Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]model.Problem, 0)
	for _, p := range m.problems {
		if platform == "" || p.Platform == platform {
			ret = append(ret, *p)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

func (m *MemoryStore) UpsertProblem(ctx context.Context, p *model.Problem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.Key()
	if old, ok := m.problems[key]; ok {
		p.ID = old.ID
		mergeProblem(p, old)
	} else {
		m.nextProbID++
		p.ID = m.nextProbID
		if p.Type == "" {
			p.Type = model.PROGRAMMING
		}
	}
	p.UpdatedAt = time.Now()
	c := *p
	c.Tags = nil
	c.TagsObserved = false
	m.problems[key] = &c
	return nil
}

func (m *MemoryStore) CountProblems(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.problems)), nil
}

func (m *MemoryStore) ProblemTags(ctx context.Context, problemID int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0)
	for name, id := range m.tags {
		if m.problemTags[problemID][id] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) AttachTags(ctx context.Context, problemID int64, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		id, ok := m.tags[name]
		if !ok {
			m.nextTagID++
			id = m.nextTagID
			m.tags[name] = id
		}
		if m.problemTags[problemID] == nil {
			m.problemTags[problemID] = make(map[int64]bool)
		}
		m.problemTags[problemID][id] = true
	}
	return nil
}

func (m *MemoryStore) DetachTags(ctx context.Context, problemID int64, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		if id, ok := m.tags[name]; ok {
			delete(m.problemTags[problemID], id)
		}
	}
	return nil
}

func (m *MemoryStore) ListAttempts(ctx context.Context) ([]model.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]model.Attempt, 0, len(m.attempts))
	for _, a := range m.attempts {
		ret = append(ret, a)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

func (m *MemoryStore) ListAttemptsByUser(ctx context.Context, userID int64) ([]model.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]model.Attempt, 0)
	for _, a := range m.attempts {
		if a.UserID == userID {
			ret = append(ret, a)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].AttemptTime.After(ret[j].AttemptTime) })
	return ret, nil
}

// SaveAttempts 和数据库的唯一索引一样, 自然键重复时整批失败
func (m *MemoryStore) SaveAttempts(ctx context.Context, attempts []model.Attempt) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[model.AttemptKey]bool, len(attempts))
	for i := range attempts {
		key := attempts[i].Key()
		if _, ok := m.attempts[key]; ok || seen[key] {
			return 0, fmt.Errorf("重复的尝试记录 %+v", key)
		}
		seen[key] = true
	}
	for _, a := range attempts {
		m.nextAttID++
		a.ID = m.nextAttID
		a.Problem = nil
		m.attempts[a.Key()] = a
	}
	return len(attempts), nil
}

func (m *MemoryStore) CountAttempts(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.attempts)), nil
}

func (m *MemoryStore) CountByUserAndPlatform(ctx context.Context, start, end time.Time, onlyAC bool) ([]model.TryCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	type key struct {
		uid int64
		p   model.Platform
	}
	counts := make(map[key]int64)
	for _, a := range m.attempts {
		if a.AttemptTime.Before(start) || !a.AttemptTime.Before(end) {
			continue
		}
		if onlyAC && a.Result != model.AC {
			continue
		}
		counts[key{a.UserID, a.Platform}]++
	}
	ret := make([]model.TryCount, 0, len(counts))
	for k, c := range counts {
		ret = append(ret, model.TryCount{UserID: k.uid, Platform: k.p, Count: c})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].UserID != ret[j].UserID {
			return ret[i].UserID < ret[j].UserID
		}
		return ret[i].Platform < ret[j].Platform
	})
	return ret, nil
}

func (m *MemoryStore) SaveState(ctx context.Context, s *model.SystemState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.states[s.Date]; ok {
		s.ID = old.ID
	} else {
		s.ID = int64(len(m.states) + 1)
	}
	s.UpdatedAt = time.Now()
	m.states[s.Date] = *s
	return nil
}

func (m *MemoryStore) ListStates(ctx context.Context, limit int) ([]model.SystemState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]model.SystemState, 0, len(m.states))
	for _, s := range m.states {
		ret = append(ret, s)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Date < ret[j].Date })
	if limit > 0 && len(ret) > limit {
		ret = ret[len(ret)-limit:]
	}
	return ret, nil
}

func (m *MemoryStore) SaveCFUserInfos(ctx context.Context, infos []model.CFUserInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range infos {
		m.cfUsers[info.Handle] = info
	}
	return nil
}

func (m *MemoryStore) GetCFUserInfo(ctx context.Context, handle string) (*model.CFUserInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.cfUsers[handle]
	if !ok {
		return nil, fmt.Errorf("cf 用户 %s: %w", handle, common.ErrNotFound)
	}
	return &info, nil
}

func (m *MemoryStore) SaveStats(ctx context.Context, s *model.SystemStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	m.stats = &c
	return nil
}

func (m *MemoryStore) LoadStats(ctx context.Context) (*model.SystemStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stats == nil {
		return &model.SystemStats{}, nil
	}
	c := *m.stats
	return &c, nil
}
