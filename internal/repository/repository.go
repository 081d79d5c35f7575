package repository

import (
	"context"

	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/utils"
)

// ArticleFilter holds filtering options for listing articles.
// Slug/username variants are resolved with subqueries.
type ArticleFilter struct {
	Search         string
	CategoryID     *uint64
	CategorySlug   string
	TagID          *uint64
	TagSlug        string
	AuthorID       *uint64
	AuthorUsername string
	Status         *models.ArticleStatus
	Featured       *bool
	Pagination     utils.PaginationParams
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Search         string
	TechnologyID   *uint64
	TechnologySlug string
	AuthorID       *uint64
	Status         *models.ProjectStatus
	Featured       *bool
	Pagination     utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindActiveByUsername finds an active user by username, ignoring case
	FindActiveByUsername(ctx context.Context, username string) (*models.User, error)

	// UsernameExists and EmailExists compare case-insensitively
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// Update writes only the given columns
	Update(ctx context.Context, id uint64, changes map[string]interface{}) error

	// Delete removes the user with their articles, projects and comments
	Delete(ctx context.Context, id uint64) error
}

// ArticleRepository defines the interface for article data access
type ArticleRepository interface {
	// Create inserts the article and its tag links in one transaction
	Create(ctx context.Context, article *models.Article, tagIDs []uint64) error

	// FindByID finds an article by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Article, error)

	// SlugExists reports whether another article (not excludeID) uses slug
	SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error)

	// List retrieves articles with filtering and pagination
	List(ctx context.Context, filter ArticleFilter) ([]models.Article, int64, error)

	// Update writes the given columns; a non-nil tagIDs replaces the tag set
	Update(ctx context.Context, id uint64, changes map[string]interface{}, tagIDs []uint64) error

	// Delete removes the article, its tag links and comments
	Delete(ctx context.Context, id uint64) error

	// IncrementViewCount bumps view_count by one; false when no row matched
	IncrementViewCount(ctx context.Context, id uint64) (bool, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project, technologyIDs []uint64) error
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)
	SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error)

	// List runs the count and the page fetch inside one transaction
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	Update(ctx context.Context, id uint64, changes map[string]interface{}, technologyIDs []uint64) error
	Delete(ctx context.Context, id uint64) error
}

// TaxonomyRepository covers categories, tags and technologies
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, id uint64) (*models.Category, error)
	CategoryExists(ctx context.Context, name, slug string) (bool, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	CountArticlesInCategory(ctx context.Context, id uint64) (int64, error)
	DeleteCategory(ctx context.Context, id uint64) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	TagExists(ctx context.Context, name, slug string) (bool, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	CountTags(ctx context.Context, ids []uint64) (int64, error)

	ListTechnologies(ctx context.Context) ([]models.Technology, error)
	TechnologyExists(ctx context.Context, name, slug string) (bool, error)
	CreateTechnology(ctx context.Context, technology *models.Technology) error
	CountTechnologies(ctx context.Context, ids []uint64) (int64, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)
	ListApprovedByArticle(ctx context.Context, articleID uint64) ([]models.Comment, error)
	Approve(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
}

// StatsRepository is the key/value counter store
type StatsRepository interface {
	All(ctx context.Context) ([]models.SiteStat, error)
	Upsert(ctx context.Context, key, value string) (*models.SiteStat, error)
}
