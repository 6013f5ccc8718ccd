package models

import (
	"time"
)

// ReportReason is the closed set of reasons a report may carry.
type ReportReason string

const (
	ReasonSpam           ReportReason = "spam"
	ReasonInappropriate  ReportReason = "inappropriate"
	ReasonHarassment     ReportReason = "harassment"
	ReasonMisinformation ReportReason = "misinformation"
	ReasonOffTopic       ReportReason = "off-topic"
	ReasonOther          ReportReason = "other"
)

// Valid reports whether the reason is in the enumerated set.
func (r ReportReason) Valid() bool {
	switch r {
	case ReasonSpam, ReasonInappropriate, ReasonHarassment,
		ReasonMisinformation, ReasonOffTopic, ReasonOther:
		return true
	}
	return false
}

// Report records one abuse report by a user on exactly one of a post or a
// comment. Like votes, the composite unique indexes collapse duplicate
// races to a single stored row.
type Report struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ReporterID uint         `gorm:"not null;index:idx_reports_reporter_post,unique;index:idx_reports_reporter_comment,unique" json:"reporter_id"`
	PostID     *uint        `gorm:"index:idx_reports_reporter_post,unique" json:"post_id,omitempty"`
	CommentID  *uint        `gorm:"index:idx_reports_reporter_comment,unique" json:"comment_id,omitempty"`
	Reason     ReportReason `gorm:"type:varchar(20);not null" json:"reason"`
	Detail     string       `gorm:"type:text" json:"detail,omitempty"`
	Reporter   User         `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Report) TableName() string {
	return "reports"
}
