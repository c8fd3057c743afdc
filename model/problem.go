package model

import (
	"strings"
	"time"
)

const PROGRAMMING = "PROGRAMMING"

// Problem 外部OJ的题目, (platform, pid) 唯一
type Problem struct {
	ID        int64     `json:"id" xorm:"pk autoincr"`
	UpdatedAt time.Time `json:"updated_at" xorm:"updated"`
	Platform  Platform  `json:"platform" xorm:"varchar(32) unique(platform_pid) notnull"`
	PID       string    `json:"pid" xorm:"'pid' varchar(64) unique(platform_pid) notnull"`
	Name      string    `json:"name" xorm:"varchar(255)"`
	Type      string    `json:"type" xorm:"varchar(32)"`
	Points    *float64  `json:"points"`
	URL       string    `json:"url" xorm:"'url' varchar(255)"`
	Tags      []string  `json:"tags" xorm:"-"`

	//为 true 时 Tags 是平台给出的完整标签集合, 需要和库里对齐
	TagsObserved bool `json:"-" xorm:"-"`
}

func (Problem) TableName() string {
	return "extoj_pb_info"
}

// ProblemKey 题目的自然键
type ProblemKey struct {
	Platform Platform
	PID      string
}

func (p *Problem) Key() ProblemKey {
	return ProblemKey{Platform: p.Platform, PID: p.PID}
}

// Tag 标签, 名字全局唯一
type Tag struct {
	ID   int64  `json:"id" xorm:"pk autoincr"`
	Name string `json:"name" xorm:"varchar(128) unique notnull"`
}

// ProblemTag 题目和标签的多对多关系
type ProblemTag struct {
	ID        int64 `json:"id" xorm:"pk autoincr"`
	ProblemID int64 `json:"problem_id" xorm:"unique(problem_tag) index notnull"`
	TagID     int64 `json:"tag_id" xorm:"unique(problem_tag) notnull"`
}

// NormalizeTagName 只去掉首尾空白, 大小写敏感
func NormalizeTagName(name string) string {
	return strings.TrimSpace(name)
}
