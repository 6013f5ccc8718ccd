package server

import (
	"studyhall/internal/models"
	"studyhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	viewer := s.viewer(c)

	var req struct {
		PostID    *uint  `json:"post_id,omitempty"`
		CommentID *uint  `json:"comment_id,omitempty"`
		Reason    string `json:"reason"`
		Detail    string `json:"detail,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.Report(c.Context(), viewer.ID, service.Target{
		PostID:    req.PostID,
		CommentID: req.CommentID,
	}, models.ReportReason(req.Reason), req.Detail)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/admin/reports
func (s *Server) GetReports(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	rows, err := s.reportService.ListReports(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}

// GetReport handles GET /api/admin/reports/:id
func (s *Server) GetReport(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	row, err := s.reportService.GetReport(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(row)
}

// UnsuppressReported handles POST /api/admin/reports/:id/unsuppress
func (s *Server) UnsuppressReported(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reportService.Unsuppress(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item unsuppressed"})
}

// DismissReports handles POST /api/admin/reports/:id/dismiss
func (s *Server) DismissReports(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reportService.Dismiss(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reports dismissed"})
}
