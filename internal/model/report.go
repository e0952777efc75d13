package model

const (
	ReportTypePost    = "post"
	ReportTypeComment = "comment"
	ReportTypeUser    = "user"

	ReportStatusPending = "pending"
)

type Report struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	ReportType string `bson:"reportType" json:"reportType"` // post | comment | user
	ReportedID string `bson:"reportedId" json:"reportedId"`
	Status     string `bson:"status,omitempty" json:"status,omitempty"`
}

func (Report) CollectionName() string {
	return "reports"
}
