package repository

import (
	"context"

	"github.com/yukikurage/folio-api/internal/database"
	"github.com/yukikurage/folio-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project with its technology links
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project, technologyIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return insertProjectTechnologies(tx, project.ID, technologyIDs)
	})
}

func insertProjectTechnologies(tx *gorm.DB, projectID uint64, technologyIDs []uint64) error {
	if len(technologyIDs) == 0 {
		return nil
	}
	links := make([]models.ProjectTechnology, 0, len(technologyIDs))
	for _, id := range uniqueIDs(technologyIDs) {
		links = append(links, models.ProjectTechnology{ProjectID: projectID, TechnologyID: id})
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	var (
		projects []models.Project
		total    int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.applyFilter(tx.Model(&models.Project{}), filter).Count(&total).Error; err != nil {
			return err
		}

		projects = []models.Project{}
		return r.applyFilter(tx.Model(&models.Project{}), filter).
			Preload("Author").
			Preload("Technologies.Technology").
			Order("projects.display_order ASC").
			Order("projects.created_at DESC").
			Scopes(database.Paginate(filter.Pagination)).
			Find(&projects).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter ProjectFilter) *gorm.DB {
	query = query.Scopes(database.Search(filter.Search, "projects.title", "projects.description", "projects.content"))
	if filter.TechnologyID != nil || filter.TechnologySlug != "" {
		techSubQuery := r.db.Model(&models.ProjectTechnology{}).
			Select("1").
			Where("project_technologies.project_id = projects.id")
		if filter.TechnologyID != nil {
			techSubQuery = techSubQuery.Where("project_technologies.technology_id = ?", *filter.TechnologyID)
		} else {
			techIDs := r.db.Model(&models.Technology{}).Select("id").Where("slug = ?", filter.TechnologySlug)
			techSubQuery = techSubQuery.Where("project_technologies.technology_id IN (?)", techIDs)
		}
		query = query.Where("EXISTS (?)", techSubQuery)
	}
	if filter.AuthorID != nil {
		query = query.Where("projects.author_id = ?", *filter.AuthorID)
	}
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		query = query.Where("projects.featured = ?", *filter.Featured)
	}
	return query
}

// Update writes the supplied columns and optionally replaces the technology set
func (r *GormProjectRepository) Update(ctx context.Context, id uint64, changes map[string]interface{}, technologyIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.Model(&models.Project{ID: id}).Updates(changes).Error; err != nil {
				return err
			}
		}
		if technologyIDs == nil {
			return nil
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		return insertProjectTechnologies(tx, id, technologyIDs)
	})
}

// Delete hard deletes a project and its technology links
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
