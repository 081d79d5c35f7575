package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"github.com/yukikurage/folio-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCategoryTaken   = errors.New("a category with this name already exists")
	ErrTagTaken        = errors.New("a tag with this name already exists")
	ErrTechnologyTaken = errors.New("a technology with this name already exists")
	ErrCategoryInUse   = errors.New("cannot delete category with articles")
	ErrNameWithoutSlug = errors.New("name must contain letters or digits")
)

// TaxonomyService manages categories, tags and technologies
type TaxonomyService struct {
	repo repository.TaxonomyRepository
}

func NewTaxonomyService(repo repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{repo: repo}
}

type CreateCategoryInput struct {
	Name        string
	Description *string
	Color       *string
}

type CreateTechnologyInput struct {
	Name  string
	Icon  *string
	Color *string
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name, slug, err := nameAndSlug(input.Name)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.CategoryExists(ctx, name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if taken {
		return nil, ErrCategoryTaken
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategory refuses to remove a category that still has articles
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to find category: %w", err)
	}

	count, err := s.repo.CountArticlesInCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count articles: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, rawName string) (*models.Tag, error) {
	name, slug, err := nameAndSlug(rawName)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.TagExists(ctx, name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check tag: %w", err)
	}
	if taken {
		return nil, ErrTagTaken
	}

	tag := &models.Tag{Name: name, Slug: slug}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

func (s *TaxonomyService) ListTechnologies(ctx context.Context) ([]models.Technology, error) {
	technologies, err := s.repo.ListTechnologies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list technologies: %w", err)
	}
	return technologies, nil
}

func (s *TaxonomyService) CreateTechnology(ctx context.Context, input CreateTechnologyInput) (*models.Technology, error) {
	name, slug, err := nameAndSlug(input.Name)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.TechnologyExists(ctx, name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check technology: %w", err)
	}
	if taken {
		return nil, ErrTechnologyTaken
	}

	technology := &models.Technology{
		Name:  name,
		Slug:  slug,
		Icon:  input.Icon,
		Color: input.Color,
	}
	if err := s.repo.CreateTechnology(ctx, technology); err != nil {
		return nil, fmt.Errorf("failed to create technology: %w", err)
	}
	return technology, nil
}

func nameAndSlug(raw string) (string, string, error) {
	name := strings.TrimSpace(raw)
	slug := utils.Slugify(name)
	if slug == "" {
		return "", "", ErrNameWithoutSlug
	}
	return name, slug, nil
}
