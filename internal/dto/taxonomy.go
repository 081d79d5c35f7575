package dto

import "github.com/yukikurage/folio-api/internal/models"

type CategoryDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TechnologyDTO struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Color:       category.Color,
	}
}

func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		out[i] = ToCategoryDTO(category)
	}
	return out
}

func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
}

func ToTagDTOs(tags []models.Tag) []TagDTO {
	out := make([]TagDTO, len(tags))
	for i, tag := range tags {
		out[i] = ToTagDTO(tag)
	}
	return out
}

func ToTechnologyDTO(technology models.Technology) TechnologyDTO {
	return TechnologyDTO{
		ID:    technology.ID,
		Name:  technology.Name,
		Slug:  technology.Slug,
		Icon:  technology.Icon,
		Color: technology.Color,
	}
}

func ToTechnologyDTOs(technologies []models.Technology) []TechnologyDTO {
	out := make([]TechnologyDTO, len(technologies))
	for i, technology := range technologies {
		out[i] = ToTechnologyDTO(technology)
	}
	return out
}
