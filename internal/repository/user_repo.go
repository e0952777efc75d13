package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"context"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id string) (*model.User, error)
	GetAdmins(ctx context.Context) ([]*model.User, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	IncrPostsCount(ctx context.Context, id string, delta int64) error
}

type UserRepoImpl struct {
	store store.Store
	col   store.CollectionRef
}

func NewUserRepo(s store.Store) UserRepo {
	return &UserRepoImpl{
		store: s,
		col:   store.Collection(model.User{}.CollectionName()),
	}
}

// GetUserById 用户不存在时返回 store.ErrNotFound
func (s *UserRepoImpl) GetUserById(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, store.ErrNotFound
	}
	return store.GetAs[model.User](ctx, s.store, s.col.Doc(id))
}

func (s *UserRepoImpl) GetAdmins(ctx context.Context) ([]*model.User, error) {
	return store.QueryAs[model.User](ctx, s.store, s.col, store.Eq("role", model.RoleAdmin))
}

func (s *UserRepoImpl) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	return store.QueryAs[model.User](ctx, s.store, s.col)
}

func (s *UserRepoImpl) IncrPostsCount(ctx context.Context, id string, delta int64) error {
	return s.store.Increment(ctx, s.col.Doc(id), "postsCount", delta)
}
