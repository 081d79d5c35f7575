// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/folio-api/internal/config"
	"github.com/yukikurage/folio-api/internal/database"
	"github.com/yukikurage/folio-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// NewDB opens a migrated in-memory sqlite database. The pool is pinned to a
// single connection so every query sees the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// Config returns a configuration suitable for router tests
func Config() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "error",
		Server: config.ServerConfig{
			BodyLimitBytes: 1 << 20,
		},
		Database: config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"},
		JWT: config.JWTConfig{
			Secret:    JWTSecret,
			ExpiresIn: time.Hour,
		},
		CORS: config.CORSConfig{Origin: "http://localhost:3000"},
		RateLimit: config.RateLimitConfig{
			Window:      time.Minute,
			MaxRequests: 10000,
		},
	}
}

func Logger() zerolog.Logger {
	return zerolog.Nop()
}

// CreateUser inserts a user with the given role and password "password123"
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) models.Category {
	t.Helper()

	category := models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func CreateTechnology(t *testing.T, db *gorm.DB, name, slug string) models.Technology {
	t.Helper()

	technology := models.Technology{Name: name, Slug: slug}
	require.NoError(t, db.Create(&technology).Error)
	return technology
}
