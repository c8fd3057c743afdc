package dao

import (
	"CodingTracker/model"
	"context"
)

func (s *XormStore) ProblemTags(ctx context.Context, problemID int64) ([]string, error) {
	links := make([]model.ProblemTag, 0)
	if err := s.engine.Context(ctx).Where("problem_id = ?", problemID).Find(&links); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(links))
	if len(links) == 0 {
		return names, nil
	}
	ids := make([]int64, len(links))
	for i, l := range links {
		ids[i] = l.TagID
	}
	tags := make([]model.Tag, 0)
	if err := s.engine.Context(ctx).In("id", ids).Find(&tags); err != nil {
		return nil, err
	}
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

//按名字取标签, 不存在就创建
func (s *XormStore) tagByName(ctx context.Context, name string) (*model.Tag, error) {
	tag := &model.Tag{Name: name}
	ok, err := s.engine.Context(ctx).Get(tag)
	if err != nil {
		return nil, err
	}
	if ok {
		return tag, nil
	}
	if _, err := s.engine.Context(ctx).InsertOne(tag); err != nil {
		//可能被别的请求抢先创建了, 再查一次
		again := &model.Tag{Name: name}
		if ok, err2 := s.engine.Context(ctx).Get(again); err2 == nil && ok {
			return again, nil
		}
		return nil, err
	}
	return tag, nil
}

func (s *XormStore) AttachTags(ctx context.Context, problemID int64, names []string) error {
	for _, name := range names {
		tag, err := s.tagByName(ctx, name)
		if err != nil {
			return err
		}
		link := &model.ProblemTag{ProblemID: problemID, TagID: tag.ID}
		exist, err := s.engine.Context(ctx).Exist(&model.ProblemTag{ProblemID: problemID, TagID: tag.ID})
		if err != nil {
			return err
		}
		if exist {
			continue
		}
		if _, err := s.engine.Context(ctx).InsertOne(link); err != nil {
			return err
		}
	}
	return nil
}

func (s *XormStore) DetachTags(ctx context.Context, problemID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tags := make([]model.Tag, 0)
	if err := s.engine.Context(ctx).In("name", names).Find(&tags); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	_, err := s.engine.Context(ctx).Where("problem_id = ?", problemID).In("tag_id", ids).Delete(new(model.ProblemTag))
	return err
}
