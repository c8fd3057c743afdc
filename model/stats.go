package model

import "time"

// SystemStats 系统统计, 存在 redis 中, 与主库独立
type SystemStats struct {
	UserCount       int64     `json:"user_count"`
	SumProblemCount int64     `json:"sum_problem_count"`
	SumTryCount     int64     `json:"sum_try_count"`
	LastUpdateTime  time.Time `json:"last_update_time"`
}

// SystemState 每天一份的快照
type SystemState struct {
	ID              int64     `json:"id" xorm:"pk autoincr"`
	Date            string    `json:"date" xorm:"varchar(10) unique notnull"` //2006-01-02
	UserCount       int64     `json:"user_count"`
	SumProblemCount int64     `json:"sum_problem_count"`
	SumTryCount     int64     `json:"sum_try_count"`
	UpdatedAt       time.Time `json:"updated_at" xorm:"updated"`
}

// CFUserInfo codeforces 的用户资料
type CFUserInfo struct {
	Handle           string    `json:"handle" xorm:"varchar(64) pk"`
	Rating           int       `json:"rating"`
	MaxRating        int       `json:"max_rating"`
	Rank             string    `json:"rank" xorm:"'user_rank' varchar(32)"`
	MaxRank          string    `json:"max_rank" xorm:"varchar(32)"`
	Avatar           string    `json:"avatar" xorm:"varchar(255)"`
	TitlePhoto       string    `json:"title_photo" xorm:"varchar(255)"`
	RegistrationTime time.Time `json:"registration_time"`
	LastOnlineTime   time.Time `json:"last_online_time"`
}

func (CFUserInfo) TableName() string {
	return "cf_user_info"
}

// TryCount 某用户在某平台上的计数
type TryCount struct {
	UserID   int64    `json:"user_id"`
	Platform Platform `json:"platform"`
	Count    int64    `json:"count"`
}
