package model

import "time"

// Attempt 用户在外部OJ上的一次尝试, 只插入不更新
type Attempt struct {
	ID          int64      `json:"id" xorm:"pk autoincr"`
	UserID      int64      `json:"user_id" xorm:"unique(attempt_key) index notnull"`
	ProblemID   int64      `json:"problem_id" xorm:"index"`
	Platform    Platform   `json:"platform" xorm:"varchar(32) unique(attempt_key) notnull"`
	PID         string     `json:"pid" xorm:"'pid' varchar(64) unique(attempt_key) notnull"`
	Result      ResultKind `json:"result" xorm:"varchar(16) unique(attempt_key) notnull"`
	AttemptTime time.Time  `json:"attempt_time" xorm:"unique(attempt_key) notnull"`
	Problem     *Problem   `json:"problem,omitempty" xorm:"-"` //爬虫看到的题目信息, 由同步流程落库
}

func (Attempt) TableName() string {
	return "user_try_problem"
}

// AttemptKey 尝试记录的自然键, (platform, pid) 唯一确定一道题
type AttemptKey struct {
	UserID   int64
	Platform Platform
	PID      string
	Unix     int64
	Result   ResultKind
}

func (a *Attempt) Key() AttemptKey {
	return AttemptKey{
		UserID:   a.UserID,
		Platform: a.Platform,
		PID:      a.PID,
		Unix:     a.AttemptTime.Unix(),
		Result:   a.Result,
	}
}

// Less 按 (用户, 题目, 时间, 结果) 的字典序
func (k AttemptKey) Less(o AttemptKey) bool {
	if k.UserID != o.UserID {
		return k.UserID < o.UserID
	}
	if k.Platform != o.Platform {
		return k.Platform < o.Platform
	}
	if k.PID != o.PID {
		return k.PID < o.PID
	}
	if k.Unix != o.Unix {
		return k.Unix < o.Unix
	}
	return k.Result < o.Result
}
