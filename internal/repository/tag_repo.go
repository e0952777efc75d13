package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"context"
)

type TagRepo interface {
	IncrTagsUsage(ctx context.Context, names []string) error
}

type TagRepoImpl struct {
	store store.Store
	col   store.CollectionRef
}

func NewTagRepo(s store.Store) TagRepo {
	return &TagRepoImpl{
		store: s,
		col:   store.Collection(model.Tag{}.CollectionName()),
	}
}

// IncrTagsUsage 每个出现一次的标签 postCount +1，不存在则创建，一次批量提交
// names 需为规范化后的小写标签，重复出现会累计
func (s *TagRepoImpl) IncrTagsUsage(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	batch := s.store.Batch()
	for _, name := range names {
		batch.SetMerge(s.col.Doc(name), store.Fields{
			"name":      name,
			"postCount": store.Increment(1),
			"lastUsed":  store.ServerTimestamp,
		})
	}
	return batch.Commit(ctx)
}
