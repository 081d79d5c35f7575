package dto

import (
	"time"

	"github.com/yukikurage/folio-api/internal/models"
)

// ProjectDTO represents a project with its author and technologies
type ProjectDTO struct {
	ID           uint64               `json:"id"`
	Slug         string               `json:"slug"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Content      *string              `json:"content"`
	ImageURL     *string              `json:"imageUrl"`
	DemoURL      *string              `json:"demoUrl"`
	GithubURL    *string              `json:"githubUrl"`
	Status       models.ProjectStatus `json:"status"`
	Featured     bool                 `json:"featured"`
	Order        int                  `json:"order"`
	AuthorID     uint64               `json:"authorId"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Author       *AuthorDTO           `json:"author,omitempty"`
	Technologies []TechnologyDTO      `json:"technologies"`
}

func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:           project.ID,
		Slug:         project.Slug,
		Title:        project.Title,
		Description:  project.Description,
		Content:      project.Content,
		ImageURL:     project.ImageURL,
		DemoURL:      project.DemoURL,
		GithubURL:    project.GithubURL,
		Status:       project.Status,
		Featured:     project.Featured,
		Order:        project.Order,
		AuthorID:     project.AuthorID,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
		Technologies: make([]TechnologyDTO, 0, len(project.Technologies)),
	}
	if project.Author.ID != 0 {
		author := ToAuthorDTO(project.Author)
		dto.Author = &author
	}
	for _, link := range project.Technologies {
		dto.Technologies = append(dto.Technologies, ToTechnologyDTO(link.Technology))
	}
	return dto
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		out[i] = ToProjectDTO(project)
	}
	return out
}
