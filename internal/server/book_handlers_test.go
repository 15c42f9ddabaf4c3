package server

import (
	"testing"

	"bookshelf/internal/books"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/api/books/search", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, fiber.MethodGet, "/api/books/search?title=Kokoro", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Books []books.Book `json:"books"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Books, 1)
	assert.Equal(t, "Kokoro", body.Books[0].Title)
	assert.Equal(t, "Natsume Soseki", body.Books[0].Author)
}

func TestSearchBooksCatalogDown(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.Close()

	resp := env.request(t, fiber.MethodGet, "/api/books/search?title=Unreachable", "", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestGetBookByISBN(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/api/books/9784101010014", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var book books.Book
	decodeBody(t, resp, &book)
	assert.Equal(t, "Kokoro", book.Title)
	assert.Equal(t, "9784101010014", book.ISBN)

	resp = env.request(t, fiber.MethodGet, "/api/books/0000000000000", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
