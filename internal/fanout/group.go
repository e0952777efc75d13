package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/util"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"context"
	"errors"
	"fmt"
	log "log/slog"
)

// OnGroupMembersChanged 只通知新加入的成员 (after - before)
// 缺少变更前快照时无法求差集，直接跳过，避免把全部成员当作新成员
func (h *Handlers) OnGroupMembersChanged(ctx context.Context, evt *trigger.Event) error {
	if len(evt.Before) == 0 {
		log.WarnContext(ctx, "group update without before image, skipped", "group_id", evt.DocID)
		return nil
	}

	var before, after model.Group
	if err := evt.BeforeTo(&before); err != nil {
		return err
	}
	if err := evt.DataTo(&after); err != nil {
		return err
	}
	if after.ID == "" {
		after.ID = evt.DocID
	}

	added := util.Difference(after.Members, before.Members)
	if len(added) == 0 {
		return nil
	}

	notice := &service.Notice{
		Type:    model.NotificationGroupInvite,
		Message: fmt.Sprintf("You were added to the group \"%s\"", after.Name),
		Body:    fmt.Sprintf("You were added to \"%s\"", after.Name),
		GroupID: after.ID,
	}

	var errs []error
	for _, uid := range added {
		member, err := h.userRepo.GetUserById(ctx, uid)
		if err != nil {
			if err = skipMissing(err); err != nil {
				errs = append(errs, fmt.Errorf("load member %s: %w", uid, err))
			} else {
				log.InfoContext(ctx, "new group member not found", "group_id", after.ID, "user_id", uid)
			}
			continue
		}
		if err = h.notifier.Notify(ctx, member, notice); err != nil {
			errs = append(errs, fmt.Errorf("notify member %s: %w", uid, err))
		}
	}
	return errors.Join(errs...)
}
