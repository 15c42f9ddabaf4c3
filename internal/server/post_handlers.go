package server

import (
	"bookshelf/internal/models"
	"bookshelf/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?page=N
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.Context(), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetMyPosts handles GET /api/posts/mine?page=N
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListUserPosts(c.Context(), currentUserID(c), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id. The response carries the post, its
// comments and the live catalog record when the catalog is reachable.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPostDetail(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title        string `json:"title"`
		Reason       string `json:"reason"`
		Impressions  string `json:"impressions"`
		Satisfaction int    `json:"satisfaction"`
		ISBN         string `json:"isbn"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:       currentUserID(c),
		Title:        req.Title,
		Reason:       req.Reason,
		Impressions:  req.Impressions,
		Satisfaction: req.Satisfaction,
		ISBN:         req.ISBN,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title        string `json:"title"`
		Reason       string `json:"reason"`
		Impressions  string `json:"impressions"`
		Satisfaction int    `json:"satisfaction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:       currentUserID(c),
		PostID:       postID,
		Title:        req.Title,
		Reason:       req.Reason,
		Impressions:  req.Impressions,
		Satisfaction: req.Satisfaction,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
