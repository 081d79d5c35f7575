package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/folio-api/internal/models"
	"gorm.io/gorm"
)

// GormTaxonomyRepository is a GORM implementation of TaxonomyRepository
type GormTaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new TaxonomyRepository
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &GormTaxonomyRepository{db: db}
}

func (r *GormTaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormTaxonomyRepository) FindCategoryByID(ctx context.Context, id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormTaxonomyRepository) CategoryExists(ctx context.Context, name, slug string) (bool, error) {
	return r.nameOrSlugTaken(ctx, &models.Category{}, name, slug)
}

func (r *GormTaxonomyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormTaxonomyRepository) CountArticlesInCategory(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *GormTaxonomyRepository) DeleteCategory(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTaxonomyRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormTaxonomyRepository) TagExists(ctx context.Context, name, slug string) (bool, error) {
	return r.nameOrSlugTaken(ctx, &models.Tag{}, name, slug)
}

func (r *GormTaxonomyRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// CountTags counts how many of the given tag IDs exist
func (r *GormTaxonomyRepository) CountTags(ctx context.Context, ids []uint64) (int64, error) {
	return r.countIDs(ctx, &models.Tag{}, ids)
}

func (r *GormTaxonomyRepository) ListTechnologies(ctx context.Context) ([]models.Technology, error) {
	technologies := []models.Technology{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&technologies).Error; err != nil {
		return nil, err
	}
	return technologies, nil
}

func (r *GormTaxonomyRepository) TechnologyExists(ctx context.Context, name, slug string) (bool, error) {
	return r.nameOrSlugTaken(ctx, &models.Technology{}, name, slug)
}

func (r *GormTaxonomyRepository) CreateTechnology(ctx context.Context, technology *models.Technology) error {
	return r.db.WithContext(ctx).Create(technology).Error
}

// CountTechnologies counts how many of the given technology IDs exist
func (r *GormTaxonomyRepository) CountTechnologies(ctx context.Context, ids []uint64) (int64, error) {
	return r.countIDs(ctx, &models.Technology{}, ids)
}

func (r *GormTaxonomyRepository) nameOrSlugTaken(ctx context.Context, model interface{}, name, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).
		Where("LOWER(name) = ? OR slug = ?", strings.ToLower(name), slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormTaxonomyRepository) countIDs(ctx context.Context, model interface{}, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
