package dao

import (
	"CodingTracker/model"
	"context"
	"time"
)

//存储边界, 同步流程只依赖这些接口, 有 xorm 和内存两种实现

type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error) //带上绑定的账号
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByName(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	//只有 t 比现在的值新时才更新, 返回是否更新了
	UpdateLastAttemptTime(ctx context.Context, userID int64, t time.Time) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
}

// ProblemFinder 爬虫只读, 用来复用已有题目
type ProblemFinder interface {
	FindProblem(ctx context.Context, platform model.Platform, pid string) (*model.Problem, error)
	FindProblems(ctx context.Context, platform model.Platform, pids []string) (map[string]*model.Problem, error)
}

type ProblemStore interface {
	ProblemFinder
	ListProblems(ctx context.Context, platform model.Platform) ([]model.Problem, error)
	//按 (platform, pid) 插入或更新, 会回填 p.ID
	UpsertProblem(ctx context.Context, p *model.Problem) error
	CountProblems(ctx context.Context) (int64, error)
}

type TagStore interface {
	ProblemTags(ctx context.Context, problemID int64) ([]string, error)
	AttachTags(ctx context.Context, problemID int64, names []string) error
	DetachTags(ctx context.Context, problemID int64, names []string) error
}

type AttemptStore interface {
	ListAttempts(ctx context.Context) ([]model.Attempt, error)
	ListAttemptsByUser(ctx context.Context, userID int64) ([]model.Attempt, error)
	//只插入, 返回插入条数
	SaveAttempts(ctx context.Context, attempts []model.Attempt) (int, error)
	CountAttempts(ctx context.Context) (int64, error)
	//[start, end) 内每个用户每个平台的尝试数, onlyAC 时只统计通过
	CountByUserAndPlatform(ctx context.Context, start, end time.Time, onlyAC bool) ([]model.TryCount, error)
}

type StateStore interface {
	SaveState(ctx context.Context, s *model.SystemState) error //按日期覆盖
	ListStates(ctx context.Context, limit int) ([]model.SystemState, error)
	SaveCFUserInfos(ctx context.Context, infos []model.CFUserInfo) error
	GetCFUserInfo(ctx context.Context, handle string) (*model.CFUserInfo, error)
}

type Store interface {
	UserStore
	ProblemStore
	TagStore
	AttemptStore
	StateStore
}

// StatsStore 系统统计, 独立于主库
type StatsStore interface {
	SaveStats(ctx context.Context, s *model.SystemStats) error
	LoadStats(ctx context.Context) (*model.SystemStats, error)
}
