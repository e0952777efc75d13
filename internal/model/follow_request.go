package model

type FollowRequest struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	FromUserID string `bson:"fromUserId" json:"fromUserId"`
	ToUserID   string `bson:"toUserId" json:"toUserId"`
}

func (FollowRequest) CollectionName() string {
	return "followRequests"
}
