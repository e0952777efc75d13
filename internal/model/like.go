package model

type Like struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	PostID string `bson:"postId" json:"postId"`
	UserID string `bson:"userId" json:"userId"`
}

func (Like) CollectionName() string {
	return "likes"
}
