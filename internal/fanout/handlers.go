// Package fanout 订阅文档变更，产出通知、计数与级联清理。
package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"Ripple/internal/repository"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"errors"
)

type Handlers struct {
	userRepo       repository.UserRepo
	postRepo       repository.PostRepo
	postActionRepo repository.PostActionRepo
	tagRepo        repository.TagRepo
	notifier       service.Notifier
	moderator      service.Moderator
}

func NewHandlers(
	userRepo repository.UserRepo,
	postRepo repository.PostRepo,
	postActionRepo repository.PostActionRepo,
	tagRepo repository.TagRepo,
	notifier service.Notifier,
	moderator service.Moderator,
) *Handlers {
	return &Handlers{
		userRepo:       userRepo,
		postRepo:       postRepo,
		postActionRepo: postActionRepo,
		tagRepo:        tagRepo,
		notifier:       notifier,
		moderator:      moderator,
	}
}

// Register 绑定全部路由
func (h *Handlers) Register(d *trigger.Dispatcher) {
	d.Register(model.Like{}.CollectionName(), trigger.INSERT, "onLiked", h.OnLiked)
	d.Register(model.Comment{}.CollectionName(), trigger.INSERT, "onCommented", h.OnCommented)
	d.Register(model.FollowRequest{}.CollectionName(), trigger.INSERT, "onFollowRequested", h.OnFollowRequested)
	d.Register(model.Group{}.CollectionName(), trigger.UPDATE, "onGroupMembersChanged", h.OnGroupMembersChanged)
	d.Register(model.Post{}.CollectionName(), trigger.INSERT, "onPostCreatedStats", h.OnPostCreatedStats)
	d.Register(model.Post{}.CollectionName(), trigger.INSERT, "onPostCreatedTags", h.OnPostCreatedTags)
	d.Register(model.Post{}.CollectionName(), trigger.DELETE, "onPostDeleted", h.OnPostDeleted)
	d.Register(model.Report{}.CollectionName(), trigger.INSERT, "onReportFiled", h.OnReportFiled)
}

// skipMissing 引用的文档已不存在视为正常竞态
func skipMissing(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
