package service

import (
	"context"
	"errors"

	"studyhall/internal/cache"
	"studyhall/internal/models"
	"studyhall/internal/observability"

	"gorm.io/gorm"
)

// VoteService is the interaction ledger: the only writer of vote rows and
// of the reputation counter.
//
// Correctness does not rely on in-process state. The existence check, the
// insert, and the reputation update run inside one database transaction,
// and the composite unique index is the final duplicate guard: of two
// racing identical requests exactly one commits, the other surfaces as a
// Conflict.
type VoteService struct {
	db *gorm.DB
}

// NewVoteService returns a new VoteService.
func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// AddVote records one upvote by voterID on the target and increments the
// author's reputation in the same transaction.
func (s *VoteService) AddVote(ctx context.Context, voterID uint, target Target) (*models.Vote, error) {
	if err := target.Validate(); err != nil {
		observability.VotesTotal.WithLabelValues("add", models.CodeInvalidTarget).Inc()
		return nil, err
	}

	var vote *models.Vote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := targetAuthor(ctx, tx, target)
		if err != nil {
			return err
		}
		if authorID == voterID {
			return models.NewSelfInteractionError("upvote")
		}

		v := &models.Vote{
			VoterID:   voterID,
			PostID:    target.PostID,
			CommentID: target.CommentID,
		}
		if err := tx.Create(v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("You have already voted on this item")
			}
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", authorID).
			Update("reputation", gorm.Expr("reputation + 1")).Error; err != nil {
			return err
		}

		vote = v
		return nil
	})
	if err != nil {
		observability.VotesTotal.WithLabelValues("add", outcomeLabel(err)).Inc()
		return nil, err
	}

	cache.Invalidate(ctx, voteCountKey(target))
	observability.VotesTotal.WithLabelValues("add", "created").Inc()
	return vote, nil
}

// RemoveVote deletes the voter's own vote and decrements the author's
// reputation in the same transaction. The counter has no floor: enough
// removals can take it below zero.
func (s *VoteService) RemoveVote(ctx context.Context, voterID, voteID uint) error {
	var target Target
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vote models.Vote
		if err := tx.First(&vote, voteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("vote", voteID)
			}
			return err
		}
		if vote.VoterID != voterID {
			return models.NewForbiddenError("You can only remove your own votes")
		}

		target = Target{PostID: vote.PostID, CommentID: vote.CommentID}

		authorID, err := s.targetAuthorAnyState(ctx, tx, target)
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Vote{}, vote.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", authorID).
			Update("reputation", gorm.Expr("reputation - 1")).Error
	})
	if err != nil {
		observability.VotesTotal.WithLabelValues("remove", outcomeLabel(err)).Inc()
		return err
	}

	cache.Invalidate(ctx, voteCountKey(target))
	observability.VotesTotal.WithLabelValues("remove", "removed").Inc()
	return nil
}

// targetAuthorAnyState resolves the author even when the target post has
// been soft-deleted since the vote was cast, so the reputation stays in
// step with the vote rows.
func (s *VoteService) targetAuthorAnyState(ctx context.Context, tx *gorm.DB, t Target) (uint, error) {
	if t.PostID != nil {
		var post models.Post
		if err := tx.WithContext(ctx).Unscoped().Select("id", "user_id").First(&post, *t.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, models.NewNotFoundError("post", *t.PostID)
			}
			return 0, err
		}
		return post.UserID, nil
	}
	return targetAuthor(ctx, tx, t)
}

// CountVotes returns the number of votes on the target, read through the
// vote-count cache when one is configured.
func (s *VoteService) CountVotes(ctx context.Context, target Target) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}

	key := voteCountKey(target)
	if n, hit := cache.GetCount(ctx, key); hit {
		return n, nil
	}

	var count int64
	if err := s.targetQuery(ctx, target).Count(&count).Error; err != nil {
		return 0, err
	}
	cache.SetCount(ctx, key, count)
	return count, nil
}

// HasVoted reports whether the voter already voted on the target.
// An anonymous caller (voterID 0) has never voted.
func (s *VoteService) HasVoted(ctx context.Context, voterID uint, target Target) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	if voterID == 0 {
		return false, nil
	}

	var count int64
	if err := s.targetQuery(ctx, target).Where("voter_id = ?", voterID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *VoteService) targetQuery(ctx context.Context, t Target) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Vote{})
	if t.PostID != nil {
		return q.Where("post_id = ?", *t.PostID)
	}
	return q.Where("comment_id = ?", *t.CommentID)
}

func voteCountKey(t Target) string {
	if t.PostID != nil {
		return cache.PostVotesKey(*t.PostID)
	}
	return cache.CommentVotesKey(*t.CommentID)
}

// outcomeLabel maps an error to a low-cardinality metrics label.
func outcomeLabel(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "error"
}
