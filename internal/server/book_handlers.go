package server

import (
	"bookshelf/internal/books"
	"bookshelf/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchBooks handles GET /api/books/search?title=...&author=...
// An unreachable catalog is a 502; a catalog that answered with nothing
// usable is an empty result.
func (s *Server) SearchBooks(c *fiber.Ctx) error {
	title := c.Query("title")
	author := c.Query("author")
	if title == "" && author == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A title or author query is required"))
	}

	found, err := s.booksClient.Search(c.Context(), title, author)
	if err != nil {
		return respondServiceError(c,
			models.NewUnavailableError("Book catalog is unavailable", err))
	}
	if found == nil {
		found = []books.Book{}
	}

	return c.JSON(fiber.Map{"books": found})
}

// GetBookByISBN handles GET /api/books/:isbn
func (s *Server) GetBookByISBN(c *fiber.Ctx) error {
	isbn := c.Params("isbn")
	if isbn == "" || len(isbn) > 13 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A valid ISBN is required"))
	}

	book, err := s.booksClient.LookupISBN(c.Context(), isbn)
	if err != nil {
		return respondServiceError(c,
			models.NewUnavailableError("Book catalog is unavailable", err))
	}
	if book == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Book", isbn))
	}

	return c.JSON(book)
}
