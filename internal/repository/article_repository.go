package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/folio-api/internal/database"
	"github.com/yukikurage/folio-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormArticleRepository is a GORM implementation of ArticleRepository
type GormArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &GormArticleRepository{db: db}
}

// Create creates a new article with its tag links
func (r *GormArticleRepository) Create(ctx context.Context, article *models.Article, tagIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(article).Error; err != nil {
			return err
		}
		return insertArticleTags(tx, article.ID, tagIDs)
	})
}

func insertArticleTags(tx *gorm.DB, articleID uint64, tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.ArticleTag, 0, len(tagIDs))
	for _, id := range uniqueIDs(tagIDs) {
		links = append(links, models.ArticleTag{ArticleID: articleID, TagID: id})
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

// FindByID finds an article by ID with optional preloading
func (r *GormArticleRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Article, error) {
	var article models.Article
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *GormArticleRepository) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves articles with filtering and pagination. Count and page are
// two independent queries.
func (r *GormArticleRepository) List(ctx context.Context, filter ArticleFilter) ([]models.Article, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := r.applyFilter(db.Model(&models.Article{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	articles := []models.Article{}
	err := r.applyFilter(db.Model(&models.Article{}), filter).
		Preload("Author").
		Preload("Category").
		Preload("Tags.Tag").
		Order("articles.created_at DESC").
		Order("articles.id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (r *GormArticleRepository) applyFilter(query *gorm.DB, filter ArticleFilter) *gorm.DB {
	query = query.Scopes(database.Search(filter.Search, "articles.title", "articles.excerpt", "articles.content"))
	if filter.CategoryID != nil {
		query = query.Where("articles.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		categoryIDs := r.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug)
		query = query.Where("articles.category_id IN (?)", categoryIDs)
	}
	if filter.TagID != nil || filter.TagSlug != "" {
		tagSubQuery := r.db.Model(&models.ArticleTag{}).
			Select("1").
			Where("article_tags.article_id = articles.id")
		if filter.TagID != nil {
			tagSubQuery = tagSubQuery.Where("article_tags.tag_id = ?", *filter.TagID)
		} else {
			tagIDs := r.db.Model(&models.Tag{}).Select("id").Where("slug = ?", filter.TagSlug)
			tagSubQuery = tagSubQuery.Where("article_tags.tag_id IN (?)", tagIDs)
		}
		query = query.Where("EXISTS (?)", tagSubQuery)
	}
	if filter.AuthorID != nil {
		query = query.Where("articles.author_id = ?", *filter.AuthorID)
	}
	if filter.AuthorUsername != "" {
		authorIDs := r.db.Model(&models.User{}).Select("id").Where("LOWER(username) = ?", strings.ToLower(filter.AuthorUsername))
		query = query.Where("articles.author_id IN (?)", authorIDs)
	}
	if filter.Status != nil {
		query = query.Where("articles.status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		query = query.Where("articles.featured = ?", *filter.Featured)
	}
	return query
}

// Update writes the supplied columns and optionally replaces the tag set
func (r *GormArticleRepository) Update(ctx context.Context, id uint64, changes map[string]interface{}, tagIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.Model(&models.Article{ID: id}).Updates(changes).Error; err != nil {
				return err
			}
		}
		if tagIDs == nil {
			return nil
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}
		return insertArticleTags(tx, id, tagIDs)
	})
}

// Delete hard deletes an article and its dependent rows
func (r *GormArticleRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Article{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormArticleRepository) IncrementViewCount(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
