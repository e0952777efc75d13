package repository

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/store"
	"context"
	"time"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, recipientID string, n *model.Notification) (string, error)
	DeleteExpired(ctx context.Context, recipientID string, before time.Time) (int, error)
}

type NotificationRepoImpl struct {
	store store.Store
}

func NewNotificationRepo(s store.Store) NotificationRepo {
	return &NotificationRepoImpl{store: s}
}

func (s *NotificationRepoImpl) col(recipientID string) store.CollectionRef {
	return store.SubCollection(model.Notification{}.CollectionName(), recipientID)
}

// CreateNotification 插入新通知，read 固定为 false，createdAt 由存储端填充
func (s *NotificationRepoImpl) CreateNotification(ctx context.Context, recipientID string, n *model.Notification) (string, error) {
	fields := store.Fields{
		"type":      string(n.Type),
		"message":   n.Message,
		"read":      false,
		"createdAt": store.ServerTimestamp,
	}
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
			fields[k] = v
		}
	}

	ref, err := s.store.Create(ctx, s.col(recipientID), fields)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// DeleteExpired 删除 createdAt 严格早于 before 的通知，单个用户一个批次
func (s *NotificationRepoImpl) DeleteExpired(ctx context.Context, recipientID string, before time.Time) (int, error) {
	return deleteWhere(ctx, s.store, s.col(recipientID), store.Lt("createdAt", before))
}
