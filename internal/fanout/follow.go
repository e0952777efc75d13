package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/service"
	"Ripple/internal/trigger"
	"context"
)

func (h *Handlers) OnFollowRequested(ctx context.Context, evt *trigger.Event) error {
	var req model.FollowRequest
	if err := evt.DataTo(&req); err != nil {
		return err
	}
	if req.ID == "" {
		req.ID = evt.DocID
	}

	target, err := h.userRepo.GetUserById(ctx, req.ToUserID)
	if err != nil {
		return skipMissing(err)
	}
	requester, err := h.userRepo.GetUserById(ctx, req.FromUserID)
	if err != nil {
		return skipMissing(err)
	}

	return h.notifier.Notify(ctx, target, &service.Notice{
		Type:       model.NotificationFollowRequest,
		Message:    requester.DisplayName + " wants to follow you",
		FromUserID: requester.ID,
		RequestID:  req.ID,
	})
}
