package server

import (
	"studyhall/internal/models"
	"studyhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/votes
func (s *Server) CastVote(c *fiber.Ctx) error {
	viewer := s.viewer(c)

	var req struct {
		PostID    *uint `json:"post_id,omitempty"`
		CommentID *uint `json:"comment_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	vote, err := s.voteService.AddVote(c.Context(), viewer.ID, service.Target{
		PostID:    req.PostID,
		CommentID: req.CommentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vote)
}

// RetractVote handles DELETE /api/votes/:id
func (s *Server) RetractVote(c *fiber.Ctx) error {
	viewer := s.viewer(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.voteService.RemoveVote(c.Context(), viewer.ID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vote removed"})
}

// GetPostVotes handles GET /api/posts/:id/votes
func (s *Server) GetPostVotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	return s.voteSummary(c, service.PostTarget(id))
}

// GetCommentVotes handles GET /api/comments/:id/votes
func (s *Server) GetCommentVotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	return s.voteSummary(c, service.CommentTarget(id))
}

func (s *Server) voteSummary(c *fiber.Ctx, target service.Target) error {
	viewer := s.viewer(c)

	count, err := s.voteService.CountVotes(c.Context(), target)
	if err != nil {
		return respondServiceError(c, err)
	}
	voted, err := s.voteService.HasVoted(c.Context(), viewer.ID, target)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"count": count,
		"voted": voted,
	})
}
