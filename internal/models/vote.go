package models

import (
	"time"
)

// Vote records one upvote by a user on exactly one of a post or a comment.
//
// The composite unique indexes are the authoritative duplicate guard: two
// racing identical requests both reach the insert, and the database lets
// exactly one commit. NULL target columns do not collide, so post votes and
// comment votes never interfere.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VoterID   uint      `gorm:"not null;index:idx_votes_voter_post,unique;index:idx_votes_voter_comment,unique" json:"voter_id"`
	PostID    *uint     `gorm:"index:idx_votes_voter_post,unique" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"index:idx_votes_voter_comment,unique" json:"comment_id,omitempty"`
	Voter     User      `gorm:"foreignKey:VoterID" json:"voter,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Vote) TableName() string {
	return "votes"
}
