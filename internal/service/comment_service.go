package service

import (
	"context"
	"fmt"

	"bookshelf/internal/models"
	"bookshelf/internal/repository"
)

// CommentService owns comments. Comments are immutable: they can be created
// and deleted but never edited.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// CreateCommentInput carries a new comment on a post.
type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// DeleteCommentInput identifies a comment to delete and who is asking.
type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

// NewCommentService returns a CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment validates and stores a comment on an existing post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len([]rune(in.Content)) > models.MaxCommentLen {
		return nil, models.NewValidationError(fmt.Sprintf("Comment must not exceed %d characters", models.MaxCommentLen))
	}

	comment := &models.Comment{
		UserID:  in.UserID,
		PostID:  in.PostID,
		Content: in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns all comments on a post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment; only its author may do so.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if !models.CanModify(in.UserID, comment.UserID) {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	return comment, nil
}
