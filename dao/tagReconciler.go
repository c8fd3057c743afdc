package dao

import (
	"CodingTracker/model"
	"context"
	"sort"
)

// DiffTags 计算从 current 变成 desired 需要添加和删除的标签
func DiffTags(current, desired []string) (toAdd, toRemove []string) {
	cur := normalizeTags(current)
	want := normalizeTags(desired)
	toAdd = make([]string, 0)
	toRemove = make([]string, 0)
	for name := range want {
		if !cur[name] {
			toAdd = append(toAdd, name)
		}
	}
	for name := range cur {
		if !want[name] {
			toRemove = append(toRemove, name)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}

func normalizeTags(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if n := model.NormalizeTagName(name); n != "" {
			set[n] = true
		}
	}
	return set
}

// ReconcileTags 让题目的标签等于 desired, 先删后加
func ReconcileTags(ctx context.Context, store TagStore, problemID int64, desired []string) (added, removed int, err error) {
	current, err := store.ProblemTags(ctx, problemID)
	if err != nil {
		return 0, 0, err
	}
	toAdd, toRemove := DiffTags(current, desired)
	if len(toRemove) > 0 {
		if err := store.DetachTags(ctx, problemID, toRemove); err != nil {
			return 0, 0, err
		}
	}
	if len(toAdd) > 0 {
		if err := store.AttachTags(ctx, problemID, toAdd); err != nil {
			return 0, len(toRemove), err
		}
	}
	return len(toAdd), len(toRemove), nil
}
