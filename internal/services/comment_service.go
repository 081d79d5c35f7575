package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("only the author can delete this comment")
	ErrCommentEmpty    = errors.New("comment content cannot be empty")
)

// CommentService handles comment moderation. New comments start unapproved.
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
}

func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
	}
}

// ListApproved returns the approved comments of an article, oldest first
func (s *CommentService) ListApproved(ctx context.Context, articleID uint64) ([]models.Comment, error) {
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListApprovedByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Create(ctx context.Context, articleID, authorID uint64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   content,
		ArticleID: articleID,
		AuthorID:  authorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.find(ctx, comment.ID)
}

func (s *CommentService) Approve(ctx context.Context, id uint64) (*models.Comment, error) {
	if err := s.commentRepo.Approve(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to approve comment: %w", err)
	}
	return s.find(ctx, id)
}

// Delete removes a comment written by actorID
func (s *CommentService) Delete(ctx context.Context, id, actorID uint64) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		return ErrNotCommentOwner
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) find(ctx context.Context, id uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) ensureArticle(ctx context.Context, articleID uint64) error {
	if _, err := s.articleRepo.FindByID(ctx, articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("failed to find article: %w", err)
	}
	return nil
}
