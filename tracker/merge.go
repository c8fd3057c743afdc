package tracker

import (
	"CodingTracker/model"
	"sort"
	"time"
)

// mergeAttempts 合并所有任务的结果, 按自然键去重并排序
func mergeAttempts(batches [][]model.Attempt) []model.Attempt {
	byKey := make(map[model.AttemptKey]model.Attempt)
	for _, batch := range batches {
		for _, a := range batch {
			k := a.Key()
			if _, ok := byKey[k]; !ok {
				byKey[k] = a
			}
		}
	}
	merged := make([]model.Attempt, 0, len(byKey))
	for _, a := range byKey {
		merged = append(merged, a)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Key().Less(merged[j].Key())
	})
	return merged
}

// newAttempts fetched 中库里还没有的
func newAttempts(fetched, persisted []model.Attempt) []model.Attempt {
	exist := make(map[model.AttemptKey]bool, len(persisted))
	for i := range persisted {
		exist[persisted[i].Key()] = true
	}
	ret := make([]model.Attempt, 0)
	for _, a := range fetched {
		if !exist[a.Key()] {
			ret = append(ret, a)
		}
	}
	return ret
}

// latestByUser 每个用户最新的尝试时间
func latestByUser(attempts []model.Attempt) map[int64]time.Time {
	ret := make(map[int64]time.Time)
	for _, a := range attempts {
		if t, ok := ret[a.UserID]; !ok || a.AttemptTime.After(t) {
			ret[a.UserID] = a.AttemptTime
		}
	}
	return ret
}

// sightings 合并结果里出现的题目, 同一道题优先用带完整标签的那次
func sightings(attempts []model.Attempt) []*model.Problem {
	byKey := make(map[model.ProblemKey]*model.Problem)
	for _, a := range attempts {
		p := a.Problem
		if p == nil {
			p = &model.Problem{Platform: a.Platform, PID: a.PID, ID: a.ProblemID}
		}
		k := model.ProblemKey{Platform: a.Platform, PID: a.PID}
		if old, ok := byKey[k]; !ok || (!old.TagsObserved && p.TagsObserved) {
			byKey[k] = p
		}
	}
	return sortedProblems(byKey)
}

func sortedProblems(byKey map[model.ProblemKey]*model.Problem) []*model.Problem {
	ret := make([]*model.Problem, 0, len(byKey))
	for _, p := range byKey {
		ret = append(ret, p)
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Platform != ret[j].Platform {
			return ret[i].Platform < ret[j].Platform
		}
		return ret[i].PID < ret[j].PID
	})
	return ret
}
