package model

import "time"

// Tag 文档 ID 即小写后的标签文本
type Tag struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	PostCount int64     `bson:"postCount" json:"postCount"`
	LastUsed  time.Time `bson:"lastUsed" json:"lastUsed"`
}

func (Tag) CollectionName() string {
	return "tags"
}
