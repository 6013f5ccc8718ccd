package server

import (
	"github.com/gofiber/fiber/v2"
)

// SavePost handles POST /api/posts/:id/save
func (s *Server) SavePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.savedService.SavePost(c.Context(), s.viewer(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post saved"})
}

// UnsavePost handles DELETE /api/posts/:id/save
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.savedService.UnsavePost(c.Context(), s.viewer(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unsaved"})
}

// GetSavedPosts handles GET /api/users/me/saved
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	saved, err := s.savedService.ListSavedPosts(c.Context(), s.viewer(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(saved)
}
