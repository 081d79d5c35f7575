package models

import (
	"fmt"
	"strings"
	"time"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"
	ArticleStatusPublished ArticleStatus = "PUBLISHED"
	ArticleStatusArchived  ArticleStatus = "ARCHIVED"
)

func ParseArticleStatus(s string) (ArticleStatus, error) {
	switch st := ArticleStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusArchived:
		return st, nil
	default:
		return "", fmt.Errorf("unknown article status %q", s)
	}
}

type Article struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Slug        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Excerpt     *string       `gorm:"type:text" json:"excerpt"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	Status      ArticleStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Featured    bool          `gorm:"not null;default:false" json:"featured"`
	ViewCount   int64         `gorm:"not null;default:0" json:"viewCount"`
	PublishedAt *time.Time    `json:"publishedAt"`
	AuthorID    uint64        `gorm:"not null;index" json:"authorId"`
	CategoryID  uint64        `gorm:"not null;index" json:"categoryId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Relations
	Author   User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Category Category     `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Tags     []ArticleTag `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// ArticleTag links an article to a tag; rows live and die with either side.
type ArticleTag struct {
	ArticleID uint64 `gorm:"primarykey;autoIncrement:false" json:"articleId"`
	TagID     uint64 `gorm:"primarykey;autoIncrement:false;index" json:"tagId"`

	Tag Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

func (ArticleTag) TableName() string {
	return "article_tags"
}
