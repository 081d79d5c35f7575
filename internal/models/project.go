package models

import (
	"fmt"
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
)

func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return st, nil
	default:
		return "", fmt.Errorf("unknown project status %q", s)
	}
}

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Slug        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Content     *string       `gorm:"type:text" json:"content"`
	ImageURL    *string       `gorm:"type:varchar(500)" json:"imageUrl"`
	DemoURL     *string       `gorm:"type:varchar(500)" json:"demoUrl"`
	GithubURL   *string       `gorm:"type:varchar(500)" json:"githubUrl"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'PLANNING';index" json:"status"`
	Featured    bool          `gorm:"not null;default:false" json:"featured"`
	Order       int           `gorm:"column:display_order;not null;default:0" json:"order"`
	AuthorID    uint64        `gorm:"not null;index" json:"authorId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Relations
	Author       User                `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Technologies []ProjectTechnology `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"technologies,omitempty"`
}

type ProjectTechnology struct {
	ProjectID    uint64 `gorm:"primarykey;autoIncrement:false" json:"projectId"`
	TechnologyID uint64 `gorm:"primarykey;autoIncrement:false;index" json:"technologyId"`

	Technology Technology `gorm:"foreignKey:TechnologyID;constraint:OnDelete:CASCADE" json:"technology,omitempty"`
}

func (ProjectTechnology) TableName() string {
	return "project_technologies"
}
