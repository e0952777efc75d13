package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"context"
)

// PostActionRepo 点赞与评论
type PostActionRepo interface {
	DeleteLikesByPostId(ctx context.Context, postID string) (int, error)
	DeleteCommentsByPostId(ctx context.Context, postID string) (int, error)
}

type PostActionRepoImpl struct {
	store    store.Store
	likes    store.CollectionRef
	comments store.CollectionRef
}

func NewPostActionRepo(s store.Store) PostActionRepo {
	return &PostActionRepoImpl{
		store:    s,
		likes:    store.Collection(model.Like{}.CollectionName()),
		comments: store.Collection(model.Comment{}.CollectionName()),
	}
}

func (s *PostActionRepoImpl) DeleteLikesByPostId(ctx context.Context, postID string) (int, error) {
	return deleteWhere(ctx, s.store, s.likes, store.Eq("postId", postID))
}

func (s *PostActionRepoImpl) DeleteCommentsByPostId(ctx context.Context, postID string) (int, error) {
	return deleteWhere(ctx, s.store, s.comments, store.Eq("postId", postID))
}

// deleteWhere 查询命中的文档并在一个批次内删除，无命中时不提交
func deleteWhere(ctx context.Context, s store.Store, col store.CollectionRef, filters ...store.Filter) (int, error) {
	snaps, err := s.Query(ctx, col, filters...)
	if err != nil {
		return 0, err
	}
	if len(snaps) == 0 {
		return 0, nil
	}
	batch := s.Batch()
	for _, snap := range snaps {
		batch.Delete(snap.Ref)
	}
	if err = batch.Commit(ctx); err != nil {
		return 0, err
	}
	return len(snaps), nil
}
