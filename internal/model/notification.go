package model

import "time"

type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationFollowRequest NotificationType = "follow_request"
	NotificationGroupInvite   NotificationType = "group_invite"
	NotificationModeration    NotificationType = "moderation"
)

// Notification 挂在接收者下的通知记录 (userNotifications 子集合)
type Notification struct {
	ID        string           `bson:"_id,omitempty" json:"id"`
	Type      NotificationType `bson:"type" json:"type"`
	Message   string           `bson:"message" json:"message"`
	Read      bool             `bson:"read" json:"read"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`

	// 按类型携带的关联 ID
	PostID     string `bson:"postId,omitempty" json:"postId,omitempty"`
	CommentID  string `bson:"commentId,omitempty" json:"commentId,omitempty"`
	FromUserID string `bson:"fromUserId,omitempty" json:"fromUserId,omitempty"`
	RequestID  string `bson:"requestId,omitempty" json:"requestId,omitempty"`
	GroupID    string `bson:"groupId,omitempty" json:"groupId,omitempty"`
	ReportType string `bson:"reportType,omitempty" json:"reportType,omitempty"`
	ReportedID string `bson:"reportedId,omitempty" json:"reportedId,omitempty"`
}

func (Notification) CollectionName() string {
	return "userNotifications"
}
