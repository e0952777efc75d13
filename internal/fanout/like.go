package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"context"
)

// OnLiked 通知帖子作者，自己点赞自己不通知
func (h *Handlers) OnLiked(ctx context.Context, evt *trigger.Event) error {
	var like model.Like
	if err := evt.DataTo(&like); err != nil {
		return err
	}

	post, err := h.postRepo.GetPostById(ctx, like.PostID)
	if err != nil {
		return skipMissing(err)
	}
	if post.UserID == like.UserID {
		return nil
	}

	owner, err := h.userRepo.GetUserById(ctx, post.UserID)
	if err != nil {
		return skipMissing(err)
	}
	liker, err := h.userRepo.GetUserById(ctx, like.UserID)
	if err != nil {
		return skipMissing(err)
	}

	return h.notifier.Notify(ctx, owner, &service.Notice{
		Type:       model.NotificationLike,
		Message:    liker.DisplayName + " liked your post",
		PostID:     post.ID,
		FromUserID: liker.ID,
	})
}
