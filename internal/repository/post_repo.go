package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"context"
	"time"
)

type PostRepo interface {
	GetPostById(ctx context.Context, id string) (*model.Post, error)
	IncrCommentsCount(ctx context.Context, id string, delta int64) error
	GetAuthorIdsSince(ctx context.Context, since time.Time) ([]string, error)
}

type PostRepoImpl struct {
	store store.Store
	col   store.CollectionRef
}

func NewPostRepo(s store.Store) PostRepo {
	return &PostRepoImpl{
		store: s,
		col:   store.Collection(model.Post{}.CollectionName()),
	}
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	if id == "" {
		return nil, store.ErrNotFound
	}
	return store.GetAs[model.Post](ctx, s.store, s.col.Doc(id))
}

func (s *PostRepoImpl) IncrCommentsCount(ctx context.Context, id string, delta int64) error {
	return s.store.Increment(ctx, s.col.Doc(id), "commentsCount", delta)
}

// GetAuthorIdsSince 返回 since 之后发过帖的用户 ID，已去重
func (s *PostRepoImpl) GetAuthorIdsSince(ctx context.Context, since time.Time) ([]string, error) {
	posts, err := store.QueryAs[model.Post](ctx, s.store, s.col, store.Gte("createdAt", since))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.UserID]; ok || p.UserID == "" {
			continue
		}
		seen[p.UserID] = struct{}{}
		ids = append(ids, p.UserID)
	}
	return ids, nil
}
