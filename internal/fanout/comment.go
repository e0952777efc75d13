package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/util"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"context"
	"errors"
)

// OnCommented 评论计数 +1 并通知帖子作者
// 帖子、作者、评论者任一缺失则不产生任何副作用；
// 之后计数与通知互不依赖，任一失败不影响另一个
func (h *Handlers) OnCommented(ctx context.Context, evt *trigger.Event) error {
	var comment model.Comment
	if err := evt.DataTo(&comment); err != nil {
		return err
	}
	if comment.ID == "" {
		comment.ID = evt.DocID
	}

	post, err := h.postRepo.GetPostById(ctx, comment.PostID)
	if err != nil {
		return skipMissing(err)
	}
	owner, err := h.userRepo.GetUserById(ctx, post.UserID)
	if err != nil {
		return skipMissing(err)
	}
	commenter := owner
	if comment.UserID != post.UserID {
		if commenter, err = h.userRepo.GetUserById(ctx, comment.UserID); err != nil {
			return skipMissing(err)
		}
	}

	countErr := skipMissing(h.postRepo.IncrCommentsCount(ctx, post.ID, 1))
	return errors.Join(countErr, h.notifyComment(ctx, post, owner, commenter, &comment))
}

func (h *Handlers) notifyComment(ctx context.Context, post *model.Post, owner, commenter *model.User, comment *model.Comment) error {
	if owner.ID == commenter.ID {
		return nil
	}
	return h.notifier.Notify(ctx, owner, &service.Notice{
		Type:       model.NotificationComment,
		Message:    commenter.DisplayName + " commented on your post",
		Body:       commenter.DisplayName + " commented: " + util.Truncate(comment.Content, consts.CommentPreviewLength),
		PostID:     post.ID,
		CommentID:  comment.ID,
		FromUserID: commenter.ID,
	})
}
