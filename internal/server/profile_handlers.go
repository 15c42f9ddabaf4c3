package server

import (
	"io"
	"time"

	"bookshelf/internal/models"
	"bookshelf/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetByUserID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetProfile handles GET /api/profiles/:username. The public profile page
// shows the author's reviews, so one page of their posts rides along.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	profile, err := s.profileService.GetByUsername(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}

	posts, err := s.postService.ListUserPosts(c.Context(), profile.UserID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile": profile,
		"posts":   posts,
	})
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username     string `json:"username"`
		Name         string `json:"name"`
		Introduction string `json:"introduction"`
		Gender       int    `json:"gender"`
		Workplace    int    `json:"workplace"`
		Occupation   int    `json:"occupation"`
		Industry     int    `json:"industry"`
		Position     int    `json:"position"`
		Birth        string `json:"birth"` // YYYY-MM-DD, empty clears it
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var birth *time.Time
	if req.Birth != "" {
		parsed, err := time.Parse("2006-01-02", req.Birth)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Birth date must be in YYYY-MM-DD format"))
		}
		birth = &parsed
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		Username:     req.Username,
		Name:         req.Name,
		Introduction: req.Introduction,
		Gender:       models.Gender(req.Gender),
		Workplace:    models.Workplace(req.Workplace),
		Occupation:   models.Occupation(req.Occupation),
		Industry:     models.Industry(req.Industry),
		Position:     models.Position(req.Position),
		Birth:        birth,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyAvatar handles PUT /api/profiles/me/avatar. The image arrives as a
// multipart form field named "avatar".
func (s *Server) UpdateMyAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An avatar image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read the uploaded file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read the uploaded file"))
	}

	profile, err := s.profileService.UpdateAvatar(c.Context(), currentUserID(c), data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}
