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
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectSlugTaken    = errors.New("a project with this title already exists")
	ErrNotProjectOwner     = errors.New("only the author can modify this project")
	ErrUnknownTechnologies = errors.New("one or more technologies do not exist")
)

var projectPreloads = []string{"Author", "Technologies.Technology"}

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo  repository.ProjectRepository
	taxonomyRepo repository.TaxonomyRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taxonomyRepo repository.TaxonomyRepository) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		taxonomyRepo: taxonomyRepo,
	}
}

type CreateProjectInput struct {
	Title         string
	Description   string
	Content       *string
	ImageURL      *string
	DemoURL       *string
	GithubURL     *string
	Status        models.ProjectStatus
	Featured      bool
	Order         int
	TechnologyIDs []uint64
	AuthorID      uint64
}

type UpdateProjectInput struct {
	Title         *string
	Description   *string
	Content       *string
	ImageURL      *string
	DemoURL       *string
	GithubURL     *string
	Status        *models.ProjectStatus
	Featured      *bool
	Order         *int
	TechnologyIDs *[]uint64
}

func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, projectPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	slug, err := s.uniqueSlug(ctx, input.Title, 0)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTechnologies(ctx, input.TechnologyIDs); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = models.ProjectStatusPlanning
	}

	project := &models.Project{
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Content:     input.Content,
		ImageURL:    input.ImageURL,
		DemoURL:     input.DemoURL,
		GithubURL:   input.GithubURL,
		Status:      input.Status,
		Featured:    input.Featured,
		Order:       input.Order,
		AuthorID:    input.AuthorID,
	}

	if err := s.projectRepo.Create(ctx, project, input.TechnologyIDs); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.Get(ctx, project.ID)
}

// Update applies a partial update. A supplied technology list replaces the
// existing links entirely.
func (s *ProjectService) Update(ctx context.Context, id, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.AuthorID != actorID {
		return nil, ErrNotProjectOwner
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
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Content != nil {
		changes["content"] = *input.Content
	}
	if input.ImageURL != nil {
		changes["image_url"] = *input.ImageURL
	}
	if input.DemoURL != nil {
		changes["demo_url"] = *input.DemoURL
	}
	if input.GithubURL != nil {
		changes["github_url"] = *input.GithubURL
	}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	if input.Featured != nil {
		changes["featured"] = *input.Featured
	}
	if input.Order != nil {
		changes["display_order"] = *input.Order
	}

	var technologyIDs []uint64
	if input.TechnologyIDs != nil {
		technologyIDs = *input.TechnologyIDs
		if technologyIDs == nil {
			technologyIDs = []uint64{}
		}
		if err := s.ensureTechnologies(ctx, technologyIDs); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Update(ctx, id, changes, technologyIDs); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id, actorID uint64) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	if project.AuthorID != actorID {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) uniqueSlug(ctx context.Context, title string, excludeID uint64) (string, error) {
	slug := utils.Slugify(title)
	if slug == "" {
		return "", ErrTitleWithoutSlug
	}
	taken, err := s.projectRepo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return "", ErrProjectSlugTaken
	}
	return slug, nil
}

func (s *ProjectService) ensureTechnologies(ctx context.Context, ids []uint64) error {
	unique := distinct(ids)
	if len(unique) == 0 {
		return nil
	}
	count, err := s.taxonomyRepo.CountTechnologies(ctx, unique)
	if err != nil {
		return fmt.Errorf("failed to check technologies: %w", err)
	}
	if int(count) != len(unique) {
		return ErrUnknownTechnologies
	}
	return nil
}
