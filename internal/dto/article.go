package dto

import (
	"time"

	"github.com/yukikurage/folio-api/internal/models"
)

// ArticleDTO represents an article with its relations expanded.
// Tag links are flattened into plain tags.
type ArticleDTO struct {
	ID          uint64               `json:"id"`
	Slug        string               `json:"slug"`
	Title       string               `json:"title"`
	Excerpt     *string              `json:"excerpt"`
	Content     string               `json:"content"`
	Status      models.ArticleStatus `json:"status"`
	Featured    bool                 `json:"featured"`
	ViewCount   int64                `json:"viewCount"`
	PublishedAt *time.Time           `json:"publishedAt"`
	AuthorID    uint64               `json:"authorId"`
	CategoryID  uint64               `json:"categoryId"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Author      *AuthorDTO           `json:"author,omitempty"`
	Category    *CategoryDTO         `json:"category,omitempty"`
	Tags        []TagDTO             `json:"tags"`
}

func ToArticleDTO(article models.Article) ArticleDTO {
	dto := ArticleDTO{
		ID:          article.ID,
		Slug:        article.Slug,
		Title:       article.Title,
		Excerpt:     article.Excerpt,
		Content:     article.Content,
		Status:      article.Status,
		Featured:    article.Featured,
		ViewCount:   article.ViewCount,
		PublishedAt: article.PublishedAt,
		AuthorID:    article.AuthorID,
		CategoryID:  article.CategoryID,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
		Tags:        make([]TagDTO, 0, len(article.Tags)),
	}
	if article.Author.ID != 0 {
		author := ToAuthorDTO(article.Author)
		dto.Author = &author
	}
	if article.Category.ID != 0 {
		category := ToCategoryDTO(article.Category)
		dto.Category = &category
	}
	for _, link := range article.Tags {
		dto.Tags = append(dto.Tags, ToTagDTO(link.Tag))
	}
	return dto
}

func ToArticleDTOs(articles []models.Article) []ArticleDTO {
	out := make([]ArticleDTO, len(articles))
	for i, article := range articles {
		out[i] = ToArticleDTO(article)
	}
	return out
}
