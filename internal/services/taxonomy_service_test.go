package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"github.com/yukikurage/folio-api/internal/testutil"
)

func TestTaxonomyService_CreateRejectsDuplicates(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	service := NewTaxonomyService(repository.NewTaxonomyRepository(db))

	category, err := service.CreateCategory(ctx, CreateCategoryInput{Name: "Web Development"})
	require.NoError(t, err)
	assert.Equal(t, "web-development", category.Slug)

	_, err = service.CreateCategory(ctx, CreateCategoryInput{Name: "web development"})
	assert.ErrorIs(t, err, ErrCategoryTaken)

	tag, err := service.CreateTag(ctx, "Go")
	require.NoError(t, err)
	assert.Equal(t, "go", tag.Slug)
	_, err = service.CreateTag(ctx, "GO")
	assert.ErrorIs(t, err, ErrTagTaken)

	_, err = service.CreateTechnology(ctx, CreateTechnologyInput{Name: "PostgreSQL"})
	require.NoError(t, err)
	_, err = service.CreateTechnology(ctx, CreateTechnologyInput{Name: "postgresql"})
	assert.ErrorIs(t, err, ErrTechnologyTaken)

	_, err = service.CreateTag(ctx, "???")
	assert.ErrorIs(t, err, ErrNameWithoutSlug)
}

func TestTaxonomyService_DeleteCategoryRestrictsWhenInUse(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	service := NewTaxonomyService(repository.NewTaxonomyRepository(db))

	alice := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	used := testutil.CreateCategory(t, db, "Used", "used")
	empty := testutil.CreateCategory(t, db, "Empty", "empty")
	require.NoError(t, db.Create(&models.Article{
		Slug: "a", Title: "A", Content: "x", AuthorID: alice.ID, CategoryID: used.ID,
	}).Error)

	assert.ErrorIs(t, service.DeleteCategory(ctx, used.ID), ErrCategoryInUse)
	assert.NoError(t, service.DeleteCategory(ctx, empty.ID))
	assert.ErrorIs(t, service.DeleteCategory(ctx, empty.ID), ErrCategoryNotFound)

	categories, err := service.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "used", categories[0].Slug)
}
