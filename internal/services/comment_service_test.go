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

func TestCommentService_Moderation(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	service := NewCommentService(repository.NewCommentRepository(db), repository.NewArticleRepository(db))

	alice := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	category := testutil.CreateCategory(t, db, "General", "general")
	article := models.Article{Slug: "post", Title: "Post", Content: "x", AuthorID: alice.ID, CategoryID: category.ID}
	require.NoError(t, db.Create(&article).Error)

	comment, err := service.Create(ctx, article.ID, bob.ID, "  Nice post  ")
	require.NoError(t, err)
	assert.False(t, comment.Approved)
	assert.Equal(t, "Nice post", comment.Content)
	assert.Equal(t, "bob", comment.Author.Username)

	approved, err := service.ListApproved(ctx, article.ID)
	require.NoError(t, err)
	assert.Empty(t, approved)

	_, err = service.Approve(ctx, comment.ID)
	require.NoError(t, err)

	approved, err = service.ListApproved(ctx, article.ID)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	_, err = service.Create(ctx, 999, bob.ID, "orphan")
	assert.ErrorIs(t, err, ErrArticleNotFound)
	_, err = service.Create(ctx, article.ID, bob.ID, "   ")
	assert.ErrorIs(t, err, ErrCommentEmpty)

	assert.ErrorIs(t, service.Delete(ctx, comment.ID, alice.ID), ErrNotCommentOwner)
	require.NoError(t, service.Delete(ctx, comment.ID, bob.ID))
	assert.ErrorIs(t, service.Delete(ctx, comment.ID, bob.ID), ErrCommentNotFound)
}
