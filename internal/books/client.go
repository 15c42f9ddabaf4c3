// Package books is the client for the external book catalog API.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bookshelf/internal/observability"
)

// Book is a single catalog record in the shape the rest of the application
// consumes. Fields the catalog omits stay empty.
type Book struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Caption   string `json:"caption,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	SalesDate string `json:"sales_date,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	ItemURL   string `json:"item_url,omitempty"`

	ReviewAverage string `json:"review_average,omitempty"`
	ReviewCount   int    `json:"review_count,omitempty"`
}

// searchResponse mirrors the catalog's wire format: each element of Items
// wraps the record in an "Item" envelope.
type searchResponse struct {
	Items []struct {
		Item struct {
			Title         string `json:"title"`
			Author        string `json:"author"`
			ISBN          string `json:"isbn"`
			ItemCaption   string `json:"itemCaption"`
			PublisherName string `json:"publisherName"`
			SalesDate     string `json:"salesDate"`
			LargeImageURL string `json:"largeImageUrl"`
			ItemURL       string `json:"itemUrl"`
			ReviewAverage string `json:"reviewAverage"`
			ReviewCount   int    `json:"reviewCount"`
		} `json:"Item"`
	} `json:"Items"`
}

// defaultHits caps one catalog page at 30 records.
const defaultHits = 30

// Client talks to the book catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
}

// NewClient returns a catalog client for the given endpoint and application ID.
func NewClient(baseURL, appID string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		appID:      appID,
	}
}

// NewClientWithHTTP lets tests inject their own http.Client.
func NewClientWithHTTP(baseURL, appID string, httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, appID: appID}
}

// Search queries the catalog by title and/or author. Every call goes to the
// upstream; results are never cached. A nil slice with a nil error means the
// catalog answered but had nothing usable (non-2xx status); an empty non-nil
// slice means a well-formed empty result.
func (c *Client) Search(ctx context.Context, title, author string) ([]Book, error) {
	params := url.Values{}
	if title != "" {
		params.Set("title", title)
	}
	if author != "" {
		params.Set("author", author)
	}
	// The result-count hint applies to free-text search only.
	params.Set("hits", fmt.Sprint(defaultHits))
	return c.fetch(ctx, "search", params)
}

// LookupISBN fetches the single catalog record for an ISBN, or nil when the
// catalog has no match.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Book, error) {
	params := url.Values{}
	params.Set("isbn", isbn)
	found, err := c.fetch(ctx, "isbn", params)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (c *Client) fetch(ctx context.Context, operation string, params url.Values) ([]Book, error) {
	start := time.Now()

	ctx, span := observability.GetTraceLayer().TraceCatalogCall(ctx, operation)
	defer span.End()

	params.Set("format", "json")
	params.Set("applicationId", c.appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		observability.RecordCatalogRequest(operation, "error", start)
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		observability.RecordCatalogRequest(operation, "error", start)
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	// The catalog answers errors (bad app ID, malformed query) with non-2xx
	// and a body we do not trust. Treat that as "no data", not a failure.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.RecordCatalogRequest(operation, fmt.Sprintf("http_%d", resp.StatusCode), start)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		observability.RecordCatalogRequest(operation, "error", start)
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		span.RecordError(err)
		observability.RecordCatalogRequest(operation, "error", start)
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	books := make([]Book, 0, len(parsed.Items))
	for _, wrapped := range parsed.Items {
		item := wrapped.Item
		books = append(books, Book{
			Title:     item.Title,
			Author:    item.Author,
			ISBN:      item.ISBN,
			Caption:   item.ItemCaption,
			Publisher: item.PublisherName,
			SalesDate: item.SalesDate,
			ImageURL:  item.LargeImageURL,
			ItemURL:   item.ItemURL,

			ReviewAverage: item.ReviewAverage,
			ReviewCount:   item.ReviewCount,
		})
	}

	observability.RecordCatalogRequest(operation, "ok", start)
	return books, nil
}
