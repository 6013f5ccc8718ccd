package server

import (
	"studyhall/internal/models"
	"studyhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTopic handles POST /api/topics
func (s *Server) CreateTopic(c *fiber.Ctx) error {
	viewer := s.viewer(c)

	var req service.CreateTopicInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	topic, err := s.topicService.CreateTopic(c.Context(), viewer.ID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

// GetTopics handles GET /api/topics
func (s *Server) GetTopics(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	topics, err := s.topicService.ListTopics(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(topics)
}

// GetTopicBySlug handles GET /api/topics/:slug
func (s *Server) GetTopicBySlug(c *fiber.Ctx) error {
	topic, err := s.topicService.GetTopicBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(topic)
}

// GetTopicPosts handles GET /api/topics/:slug/posts
func (s *Server) GetTopicPosts(c *fiber.Ctx) error {
	topic, err := s.topicService.GetTopicBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	page := parsePagination(c, 20)
	posts, err := s.postService.ListPostsByTopic(c.Context(), s.viewer(c), topic.ID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
