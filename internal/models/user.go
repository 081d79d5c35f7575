package models

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser   Role = "USER"
	RoleAdmin  Role = "ADMIN"
	RoleAuthor Role = "AUTHOR"
)

// ParseRole normalizes case and rejects anything outside the closed role set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin, RoleAuthor:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    *string   `gorm:"type:varchar(100)" json:"firstName"`
	LastName     *string   `gorm:"type:varchar(100)" json:"lastName"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	Avatar       *string   `gorm:"type:varchar(500)" json:"avatar"`
	Website      *string   `gorm:"type:varchar(500)" json:"website"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
