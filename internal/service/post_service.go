package service

import (
	"context"
	"fmt"

	"bookshelf/internal/books"
	"bookshelf/internal/cache"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"
)

// Cataloger is the slice of the book catalog client the post service needs.
type Cataloger interface {
	LookupISBN(ctx context.Context, isbn string) (*books.Book, error)
}

// PostService owns review posts: creation against a catalog snapshot,
// listing with fixed-size pages and owner-only edits.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	catalog     Cataloger
}

// CreatePostInput carries a new review. The book is referenced by ISBN and
// resolved against the catalog at creation time.
type CreatePostInput struct {
	UserID       uint
	Title        string
	Reason       string
	Impressions  string
	Satisfaction int
	ISBN         string
}

// UpdatePostInput carries an edit to an existing review. The book snapshot
// is immutable; only the review text and rating change.
type UpdatePostInput struct {
	UserID       uint
	PostID       uint
	Title        string
	Reason       string
	Impressions  string
	Satisfaction int
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	PageInfo
}

// PostDetail is a single post with its comments and, when the catalog is
// reachable, the live book record. BookError is set when the catalog lookup
// failed; the post itself still renders.
type PostDetail struct {
	Post      *models.Post      `json:"post"`
	Comments  []*models.Comment `json:"comments"`
	Book      *books.Book       `json:"book"`
	BookError string            `json:"book_error,omitempty"`
}

// NewPostService returns a PostService.
func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, catalog Cataloger) *PostService {
	return &PostService{postRepo: postRepo, commentRepo: commentRepo, catalog: catalog}
}

func validatePostFields(title, reason, impressions string, satisfaction int) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > models.MaxPostTitleLen {
		return models.NewValidationError(fmt.Sprintf("Title must not exceed %d characters", models.MaxPostTitleLen))
	}
	if reason == "" {
		return models.NewValidationError("Reason is required")
	}
	if len([]rune(reason)) > models.MaxPostReasonLen {
		return models.NewValidationError(fmt.Sprintf("Reason must not exceed %d characters", models.MaxPostReasonLen))
	}
	if len([]rune(impressions)) > models.MaxPostImpressionsLen {
		return models.NewValidationError(fmt.Sprintf("Impressions must not exceed %d characters", models.MaxPostImpressionsLen))
	}
	if satisfaction < models.MinSatisfaction || satisfaction > models.MaxSatisfaction {
		return models.NewValidationError(fmt.Sprintf("Satisfaction must be between %d and %d", models.MinSatisfaction, models.MaxSatisfaction))
	}
	return nil
}

// CreatePost validates the review, resolves the book through the catalog and
// stores the post with a snapshot of the book's title and author.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Reason, in.Impressions, in.Satisfaction); err != nil {
		return nil, err
	}
	if in.ISBN == "" || len(in.ISBN) > 13 {
		return nil, models.NewValidationError("A valid ISBN is required")
	}

	book, err := s.catalog.LookupISBN(ctx, in.ISBN)
	if err != nil {
		return nil, models.NewUnavailableError("Book catalog is unavailable", err)
	}
	if book == nil {
		return nil, models.NewValidationError("No book found for this ISBN")
	}

	post := &models.Post{
		UserID:       in.UserID,
		Title:        in.Title,
		Reason:       in.Reason,
		Impressions:  in.Impressions,
		Satisfaction: in.Satisfaction,
		BookTitle:    book.Title,
		BookAuthor:   book.Author,
		ISBN:         in.ISBN,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// ListPosts returns one page of all posts, newest first. Out-of-range page
// numbers are clamped, never an error. Pages are cached briefly; every post
// or comment write drops the whole page namespace.
func (s *PostService) ListPosts(ctx context.Context, page int) (*PostPage, error) {
	return cache.Aside(ctx, cache.PostPageKey(page), cache.PostPageTTL,
		func(ctx context.Context) (*PostPage, error) {
			total, err := s.postRepo.Count(ctx)
			if err != nil {
				return nil, err
			}
			page, totalPages, offset := Paginate(total, page, PageSize)

			posts, err := s.postRepo.List(ctx, PageSize, offset)
			if err != nil {
				return nil, err
			}
			return &PostPage{
				Posts:    posts,
				PageInfo: PageInfo{Page: page, TotalPages: totalPages, Total: total},
			}, nil
		})
}

// ListUserPosts returns one page of a single user's posts.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, page int) (*PostPage, error) {
	total, err := s.postRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	page, totalPages, offset := Paginate(total, page, PageSize)

	posts, err := s.postRepo.ListByUser(ctx, userID, PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &PostPage{
		Posts:    posts,
		PageInfo: PageInfo{Page: page, TotalPages: totalPages, Total: total},
	}, nil
}

// GetPostDetail loads a post with its comments and the live catalog record.
// A catalog failure degrades the response instead of failing it: Book stays
// nil and BookError explains why.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: post, Comments: comments}

	book, err := s.catalog.LookupISBN(ctx, post.ISBN)
	if err != nil {
		detail.BookError = "Book catalog is unavailable"
	} else {
		detail.Book = book
	}
	return detail, nil
}

// UpdatePost applies an owner-only edit to the review fields.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !models.CanModify(in.UserID, post.UserID) {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if err := validatePostFields(in.Title, in.Reason, in.Impressions, in.Satisfaction); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Reason = in.Reason
	post.Impressions = in.Impressions
	post.Satisfaction = in.Satisfaction

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post; only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !models.CanModify(userID, post.UserID) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
