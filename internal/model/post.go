package model

import (
	"time"
)

type Post struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	UserID        string    `bson:"userId" json:"userId"`
	Content       string    `bson:"content,omitempty" json:"content,omitempty"`
	Tags          []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	CommentsCount int64     `bson:"commentsCount" json:"commentsCount"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`

	Moderation `bson:",inline"`
}

func (Post) CollectionName() string {
	return "posts"
}
