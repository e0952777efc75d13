package model

const (
	RoleAdmin = "admin"
)

type User struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	DisplayName string `bson:"displayName" json:"displayName"`
	FCMToken    string `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"` // 设备推送地址，可为空
	Role        string `bson:"role,omitempty" json:"role,omitempty"`
	PostsCount  int64  `bson:"postsCount" json:"postsCount"`

	// 用户也可以被举报
	Moderation `bson:",inline"`
}

func (User) CollectionName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
