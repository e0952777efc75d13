package model

import "time"

// Moderation 可被举报内容的公共字段 (帖子、评论、用户)
type Moderation struct {
	ReportCount  int64      `bson:"reportCount" json:"reportCount"`
	IsHidden     bool       `bson:"isHidden" json:"isHidden"`
	HiddenAt     *time.Time `bson:"hiddenAt,omitempty" json:"hiddenAt,omitempty"`
	HiddenReason string     `bson:"hiddenReason,omitempty" json:"hiddenReason,omitempty"`
}
