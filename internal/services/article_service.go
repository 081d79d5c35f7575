package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"github.com/yukikurage/folio-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrArticleSlugTaken = errors.New("an article with this title already exists")
	ErrNotArticleOwner  = errors.New("only the author can modify this article")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUnknownTags      = errors.New("one or more tags do not exist")
	ErrTitleWithoutSlug = errors.New("title must contain letters or digits")
	ErrTitleEmpty       = errors.New("title cannot be empty")
)

var articlePreloads = []string{"Author", "Category", "Tags.Tag"}

// ArticleService handles article business logic
type ArticleService struct {
	articleRepo  repository.ArticleRepository
	taxonomyRepo repository.TaxonomyRepository
	now          func() time.Time
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo repository.ArticleRepository, taxonomyRepo repository.TaxonomyRepository) *ArticleService {
	return &ArticleService{
		articleRepo:  articleRepo,
		taxonomyRepo: taxonomyRepo,
		now:          time.Now,
	}
}

// CreateArticleInput represents input for creating an article
type CreateArticleInput struct {
	Title       string
	Excerpt     *string
	Content     string
	Status      models.ArticleStatus
	Featured    bool
	PublishedAt *time.Time
	CategoryID  uint64
	TagIDs      []uint64
	AuthorID    uint64
}

// UpdateArticleInput represents a partial update; nil fields are left untouched
type UpdateArticleInput struct {
	Title       *string
	Excerpt     *string
	Content     *string
	Status      *models.ArticleStatus
	Featured    *bool
	PublishedAt *time.Time
	CategoryID  *uint64
	TagIDs      *[]uint64
}

// List returns one page of articles plus the filtered total
func (s *ArticleService) List(ctx context.Context, filter repository.ArticleFilter) ([]models.Article, int64, error) {
	articles, total, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

// Get returns an article and counts the read. Every call increments the view counter.
func (s *ArticleService) Get(ctx context.Context, id uint64) (*models.Article, error) {
	found, err := s.articleRepo.IncrementViewCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to increment view count: %w", err)
	}
	if !found {
		return nil, ErrArticleNotFound
	}
	return s.find(ctx, id)
}

func (s *ArticleService) find(ctx context.Context, id uint64) (*models.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, id, articlePreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	return article, nil
}

// Create creates an article owned by input.AuthorID
func (s *ArticleService) Create(ctx context.Context, input CreateArticleInput) (*models.Article, error) {
	slug, err := s.uniqueSlug(ctx, input.Title, 0)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureTags(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.ArticleStatusDraft
	}
	publishedAt := input.PublishedAt
	if publishedAt == nil && input.Status == models.ArticleStatusPublished {
		now := s.now()
		publishedAt = &now
	}

	article := &models.Article{
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Excerpt:     input.Excerpt,
		Content:     input.Content,
		Status:      input.Status,
		Featured:    input.Featured,
		PublishedAt: publishedAt,
		AuthorID:    input.AuthorID,
		CategoryID:  input.CategoryID,
	}

	if err := s.articleRepo.Create(ctx, article, input.TagIDs); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return s.find(ctx, article.ID)
}

// Update applies a partial update. Only the author may update; status moves
// freely between values and publishedAt is only changed when supplied.
func (s *ArticleService) Update(ctx context.Context, id, actorID uint64, input UpdateArticleInput) (*models.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != actorID {
		return nil, ErrNotArticleOwner
	}

	changes := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		slug, err := s.uniqueSlug(ctx, *input.Title, id)
		if err != nil {
			return nil, err
		}
		changes["title"] = strings.TrimSpace(*input.Title)
		changes["slug"] = slug
	}
	if input.Excerpt != nil {
		changes["excerpt"] = *input.Excerpt
	}
	if input.Content != nil {
		changes["content"] = *input.Content
	}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	if input.Featured != nil {
		changes["featured"] = *input.Featured
	}
	if input.PublishedAt != nil {
		changes["published_at"] = *input.PublishedAt
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		changes["category_id"] = *input.CategoryID
	}

	var tagIDs []uint64
	if input.TagIDs != nil {
		tagIDs = *input.TagIDs
		if tagIDs == nil {
			tagIDs = []uint64{}
		}
		if err := s.ensureTags(ctx, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := s.articleRepo.Update(ctx, id, changes, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return s.find(ctx, id)
}

// Delete removes an article owned by actorID
func (s *ArticleService) Delete(ctx context.Context, id, actorID uint64) error {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("failed to find article: %w", err)
	}
	if article.AuthorID != actorID {
		return ErrNotArticleOwner
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

func (s *ArticleService) uniqueSlug(ctx context.Context, title string, excludeID uint64) (string, error) {
	slug := utils.Slugify(title)
	if slug == "" {
		return "", ErrTitleWithoutSlug
	}
	taken, err := s.articleRepo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return "", ErrArticleSlugTaken
	}
	return slug, nil
}

func (s *ArticleService) ensureCategory(ctx context.Context, id uint64) error {
	if _, err := s.taxonomyRepo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to find category: %w", err)
	}
	return nil
}

func (s *ArticleService) ensureTags(ctx context.Context, ids []uint64) error {
	unique := distinct(ids)
	if len(unique) == 0 {
		return nil
	}
	count, err := s.taxonomyRepo.CountTags(ctx, unique)
	if err != nil {
		return fmt.Errorf("failed to check tags: %w", err)
	}
	if int(count) != len(unique) {
		return ErrUnknownTags
	}
	return nil
}

func distinct(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
