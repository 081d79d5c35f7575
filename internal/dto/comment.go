package dto

import (
	"time"

	"github.com/yukikurage/folio-api/internal/models"
)

type CommentDTO struct {
	ID        uint64     `json:"id"`
	Content   string     `json:"content"`
	Approved  bool       `json:"approved"`
	ArticleID uint64     `json:"articleId"`
	AuthorID  uint64     `json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    *AuthorDTO `json:"author,omitempty"`
}

func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		Approved:  comment.Approved,
		ArticleID: comment.ArticleID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	if comment.Author.ID != 0 {
		author := ToAuthorDTO(comment.Author)
		dto.Author = &author
	}
	return dto
}

func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		out[i] = ToCommentDTO(comment)
	}
	return out
}
