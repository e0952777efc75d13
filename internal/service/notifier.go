package service

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/push"
	"Ripple/internal/repository"
	"context"
	log "log/slog"
)

// Notice 一条待投递的通知
// Title / Body 为空时分别取类型默认标题与 Message
type Notice struct {
	Type    model.NotificationType
	Message string
	Title   string
	Body    string

	PostID     string
	CommentID  string
	FromUserID string
	RequestID  string
	GroupID    string
	ReportType string
	ReportedID string
}

var defaultTitles = map[model.NotificationType]string{
	model.NotificationLike:          "New Like",
	model.NotificationComment:       "New Comment",
	model.NotificationFollowRequest: "New Follow Request",
	model.NotificationGroupInvite:   "Added to Group",
	model.NotificationModeration:    "Content Auto-Hidden",
}

// Notifier 先写通知记录，再尽力推送
type Notifier interface {
	Notify(ctx context.Context, recipient *model.User, n *Notice) error
}

type notifierImpl struct {
	notificationRepo repository.NotificationRepo
	gateway          push.Gateway
}

func NewNotifier(notificationRepo repository.NotificationRepo, gateway push.Gateway) Notifier {
	return &notifierImpl{
		notificationRepo: notificationRepo,
		gateway:          gateway,
	}
}

// Notify 记录写入失败时返回错误且不推送；推送失败只记日志
func (s *notifierImpl) Notify(ctx context.Context, recipient *model.User, n *Notice) error {
	id, err := s.notificationRepo.CreateNotification(ctx, recipient.ID, &model.Notification{
		Type:       n.Type,
		Message:    n.Message,
		PostID:     n.PostID,
		CommentID:  n.CommentID,
		FromUserID: n.FromUserID,
		RequestID:  n.RequestID,
		GroupID:    n.GroupID,
		ReportType: n.ReportType,
		ReportedID: n.ReportedID,
	})
	if err != nil {
		return err
	}

	if recipient.FCMToken == "" || s.gateway == nil {
		return nil
	}

	msg := &push.Message{
		Title: n.Title,
		Body:  n.Body,
		Data:  n.data(),
	}
	if msg.Title == "" {
		msg.Title = defaultTitles[n.Type]
	}
	if msg.Body == "" {
		msg.Body = n.Message
	}
	if err = s.gateway.Send(ctx, recipient.FCMToken, msg); err != nil {
		log.WarnContext(ctx, "push failed",
			"recipient", recipient.ID,
			"notification_id", id,
			"type", n.Type,
			"err", err)
	}
	return nil
}

func (n *Notice) data() map[string]string {
	data := map[string]string{"type": string(n.Type)}
	refs := map[string]string{
		"postId":     n.PostID,
		"commentId":  n.CommentID,
		"fromUserId": n.FromUserID,
		"requestId":  n.RequestID,
		"groupId":    n.GroupID,
		"reportType": n.ReportType,
		"reportedId": n.ReportedID,
	}
	for k, v := range refs {
		if v != "" {
			data[k] = v
		}
	}
	return data
}
