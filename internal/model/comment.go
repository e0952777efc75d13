package model

type Comment struct {
	ID      string `bson:"_id,omitempty" json:"id"`
	PostID  string `bson:"postId" json:"postId"`
	UserID  string `bson:"userId" json:"userId"`
	Content string `bson:"content" json:"content"`

	Moderation `bson:",inline"`
}

func (Comment) CollectionName() string {
	return "comments"
}
