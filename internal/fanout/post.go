package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/util"
	"Ripple/internal/trigger"
	"context"
	"fmt"
	log "log/slog"

	"golang.org/x/sync/errgroup"
)

func (h *Handlers) OnPostCreatedStats(ctx context.Context, evt *trigger.Event) error {
	var post model.Post
	if err := evt.DataTo(&post); err != nil {
		return err
	}
	if post.UserID == "" {
		return nil
	}
	return skipMissing(h.userRepo.IncrPostsCount(ctx, post.UserID, 1))
}

// OnPostCreatedTags 标签规范化后计数，同一帖子内重复的标签按出现次数累计
func (h *Handlers) OnPostCreatedTags(ctx context.Context, evt *trigger.Event) error {
	var post model.Post
	if err := evt.DataTo(&post); err != nil {
		return err
	}
	return h.tagRepo.IncrTagsUsage(ctx, util.NormalizeTags(post.Tags))
}

// OnPostDeleted 级联删除点赞与评论，两个批次并发且相互独立
func (h *Handlers) OnPostDeleted(ctx context.Context, evt *trigger.Event) error {
	postID := evt.DocID
	if postID == "" {
		var post model.Post
		if err := evt.DataTo(&post); err != nil {
			return err
		}
		postID = post.ID
	}
	if postID == "" {
		return nil
	}

	var likes, comments int
	var g errgroup.Group
	g.Go(func() (err error) {
		if likes, err = h.postActionRepo.DeleteLikesByPostId(ctx, postID); err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if comments, err = h.postActionRepo.DeleteCommentsByPostId(ctx, postID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return nil
	})
	err := g.Wait()

	log.InfoContext(ctx, "post cascade cleanup",
		"post_id", postID,
		"likes", likes,
		"comments", comments)
	return err
}
