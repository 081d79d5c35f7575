package server

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"github.com/yukikurage/folio-api/internal/services"
	"github.com/yukikurage/folio-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Pagination *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

type article struct {
	ID        uint64 `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Featured  bool   `json:"featured"`
	ViewCount int64  `json:"viewCount"`
	Tags      []struct {
		Slug string `json:"slug"`
	} `json:"tags"`
}

type RouterSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	category models.Category
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = testutil.NewDB(s.T())

	cfg := testutil.Config()
	authService := services.NewAuthService(
		repository.NewUserRepository(s.db),
		services.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
	)
	authService.SetHashCost(bcrypt.MinCost)

	s.router = NewRouter(cfg, s.db, testutil.Logger(), authService)
	s.category = testutil.CreateCategory(s.T(), s.db, "General", "general")
}

func (s *RouterSuite) do(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *RouterSuite) register(username string) (uint64, string) {
	w, env := s.do(http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@x.com",
		"password": "Secret123!",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	return data.User.ID, data.Token
}

func (s *RouterSuite) createArticle(token, title string) article {
	w, env := s.do(http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"title":      title,
		"content":    "Content of " + title,
		"categoryId": s.category.ID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var a article
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	return a
}

func (s *RouterSuite) TestRegisterThenProfileWithToken() {
	id, token := s.register("alice")

	w, env := s.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var user struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &user))
	s.Equal(id, user.ID)
	s.Equal("alice", user.Username)
	s.Equal("USER", user.Role)
}

func (s *RouterSuite) TestGuardMessages() {
	w, env := s.do(http.MethodGet, "/api/v1/users/profile", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Access token required", env.Error)

	w, env = s.do(http.MethodGet, "/api/v1/users/profile", "not.a.token", nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Invalid or expired token", env.Error)
}

func (s *RouterSuite) TestDeactivatedUserTokenIsRejected() {
	id, token := s.register("alice")
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error)

	w, env := s.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid or inactive user", env.Error)
}

func (s *RouterSuite) TestCreateProjectWithoutHeader() {
	w, _ := s.do(http.MethodPost, "/api/v1/projects", "", map[string]string{"title": "X", "description": "Y"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"success":false,"error":"Access token required"}`, w.Body.String())
}

func (s *RouterSuite) TestHelloWorldCategoryScenario() {
	_, token := s.register("alice")
	other := testutil.CreateCategory(s.T(), s.db, "Other", "other")

	created := s.createArticle(token, "Hello World")
	s.Equal("hello-world", created.Slug)

	w, _ := s.do(http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"title": "Elsewhere", "content": "x", "categoryId": other.ID,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, env := s.do(http.MethodGet, fmt.Sprintf("/api/v1/articles?category=%d", s.category.ID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var articles []article
	s.Require().NoError(json.Unmarshal(env.Data, &articles))
	s.Require().Len(articles, 1)
	s.Equal("Hello World", articles[0].Title)
	s.Equal("hello-world", articles[0].Slug)
	s.Require().NotNil(env.Pagination)
	s.Equal(int64(1), env.Pagination.Total)

	w, env = s.do(http.MethodGet, "/api/v1/articles?category=general", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &articles))
	s.Len(articles, 1)
}

func (s *RouterSuite) TestArticleSlugCollision() {
	_, token := s.register("alice")
	s.createArticle(token, "Hello World")

	w, env := s.do(http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"title": "hello world", "content": "x", "categoryId": s.category.ID,
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("A article with this title already exists", env.Error)
}

func (s *RouterSuite) TestArticleRelationValidation() {
	_, token := s.register("alice")

	w, env := s.do(http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"title": "A", "content": "x", "categoryId": 999,
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Category not found", env.Error)

	w, env = s.do(http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"title": "A", "content": "x", "categoryId": s.category.ID, "tagIds": []int{5},
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("One or more tags do not exist", env.Error)

	w, env = s.do(http.MethodPost, "/api/v1/articles", token, map[string]interface{}{
		"title": "A", "content": "x", "categoryId": s.category.ID, "status": "LIVE",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("status must be one of DRAFT, PUBLISHED, ARCHIVED", env.Error)
}

func (s *RouterSuite) TestArticleDetailCountsEveryFetch() {
	_, token := s.register("alice")
	created := s.createArticle(token, "Counted")

	path := fmt.Sprintf("/api/v1/articles/%d", created.ID)
	var last article
	for i := 0; i < 3; i++ {
		w, env := s.do(http.MethodGet, path, "", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Require().NoError(json.Unmarshal(env.Data, &last))
	}
	s.Equal(int64(3), last.ViewCount)

	w, env := s.do(http.MethodGet, "/api/v1/articles/abc", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid article ID", env.Error)

	w, env = s.do(http.MethodGet, "/api/v1/articles/9999", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Article not found", env.Error)
}

func (s *RouterSuite) TestArticleOwnership() {
	_, alice := s.register("alice")
	_, bob := s.register("bob")
	created := s.createArticle(alice, "Mine")
	path := fmt.Sprintf("/api/v1/articles/%d", created.ID)

	w, env := s.do(http.MethodPut, path, bob, map[string]interface{}{"featured": true})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("You can only update your own articles", env.Error)

	w, env = s.do(http.MethodDelete, path, bob, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("You can only delete your own articles", env.Error)

	w, env = s.do(http.MethodPut, path, alice, map[string]interface{}{"featured": true})
	s.Require().Equal(http.StatusOK, w.Code)
	var updated article
	s.Require().NoError(json.Unmarshal(env.Data, &updated))
	s.True(updated.Featured)
	s.Equal("Mine", updated.Title)
	s.Equal("Content of Mine", updated.Content)

	w, _ = s.do(http.MethodDelete, path, alice, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, path, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestListPaginationTotals() {
	_, token := s.register("alice")
	for i := 1; i <= 7; i++ {
		s.createArticle(token, fmt.Sprintf("Post %d", i))
	}

	for _, tt := range []struct {
		query      string
		items      int
		totalPages int
	}{
		{"?page=1&limit=3", 3, 3},
		{"?page=3&limit=3", 1, 3},
		{"?page=9&limit=3", 0, 3},
		{"?limit=5", 5, 2},
		{"", 7, 1},
	} {
		w, env := s.do(http.MethodGet, "/api/v1/articles"+tt.query, "", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		var articles []article
		s.Require().NoError(json.Unmarshal(env.Data, &articles))
		s.Len(articles, tt.items, tt.query)
		s.Require().NotNil(env.Pagination)
		s.Equal(int64(7), env.Pagination.Total, tt.query)
		s.Equal(tt.totalPages, env.Pagination.TotalPages, tt.query)
	}
}

func (s *RouterSuite) TestAuthorMeFilter() {
	_, alice := s.register("alice")
	_, bob := s.register("bob")
	s.createArticle(alice, "Alice Post")
	s.createArticle(bob, "Bob Post")

	w, env := s.do(http.MethodGet, "/api/v1/articles?author=me", bob, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var articles []article
	s.Require().NoError(json.Unmarshal(env.Data, &articles))
	s.Require().Len(articles, 1)
	s.Equal("bob-post", articles[0].Slug)

	_, env = s.do(http.MethodGet, "/api/v1/articles?author=alice", "", nil)
	s.Require().NoError(json.Unmarshal(env.Data, &articles))
	s.Require().Len(articles, 1)
	s.Equal("alice-post", articles[0].Slug)

	_, env = s.do(http.MethodGet, "/api/v1/articles?author=me", "", nil)
	s.Require().NoError(json.Unmarshal(env.Data, &articles))
	s.Empty(articles)
}

func (s *RouterSuite) TestDeleteProfileCascades() {
	aliceID, alice := s.register("alice")
	_, bob := s.register("bob")
	tag := testutil.CreateTag(s.T(), s.db, "Go", "go")

	w, _ := s.do(http.MethodPost, "/api/v1/articles", alice, map[string]interface{}{
		"title": "Tagged", "content": "x", "categoryId": s.category.ID, "tagIds": []uint64{tag.ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	w, _ = s.do(http.MethodPost, "/api/v1/projects", alice, map[string]interface{}{
		"title": "Side Project", "description": "x",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	bobArticle := s.createArticle(bob, "Bob Post")
	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/articles/%d/comments", bobArticle.ID), alice, map[string]string{"content": "hi"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/users/profile", alice, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	for _, model := range []interface{}{&models.Article{}, &models.Project{}, &models.Comment{}} {
		var count int64
		s.Require().NoError(s.db.Model(model).Where("author_id = ?", aliceID).Count(&count).Error)
		s.Zero(count)
	}
	var links int64
	s.Require().NoError(s.db.Model(&models.ArticleTag{}).Count(&links).Error)
	s.Zero(links)

	w, env := s.do(http.MethodGet, "/api/v1/users/profile", alice, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid or inactive user", env.Error)

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/articles/%d", bobArticle.ID), "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestRoleGuardedRoutes() {
	_, user := s.register("alice")
	admin := testutil.CreateUser(s.T(), s.db, "root", models.RoleAdmin)
	tokens := services.NewTokenService(testutil.JWTSecret, testutil.Config().JWT.ExpiresIn)
	adminToken, err := tokens.Issue(&admin)
	s.Require().NoError(err)

	w, env := s.do(http.MethodPost, "/api/v1/tags", user, map[string]string{"name": "Go"})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Insufficient permissions", env.Error)

	w, _ = s.do(http.MethodPost, "/api/v1/tags", adminToken, map[string]string{"name": "Go"})
	s.Equal(http.StatusCreated, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/tags", adminToken, map[string]string{"name": "go"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("A tag with this name already exists", env.Error)

	w, _ = s.do(http.MethodPut, "/api/v1/stats/total_articles", adminToken, map[string]string{"value": "42"})
	s.Require().Equal(http.StatusOK, w.Code)
	w, env = s.do(http.MethodGet, "/api/v1/stats", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"total_articles":"42"}`, string(env.Data))

	w, _ = s.do(http.MethodPut, "/api/v1/stats/total_articles", user, map[string]string{"value": "1"})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RouterSuite) TestCategoryRestrictOnDelete() {
	_, token := s.register("alice")
	s.createArticle(token, "Pinned")
	admin := testutil.CreateUser(s.T(), s.db, "root", models.RoleAdmin)
	adminToken, err := services.NewTokenService(testutil.JWTSecret, testutil.Config().JWT.ExpiresIn).Issue(&admin)
	s.Require().NoError(err)

	w, env := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", s.category.ID), adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Cannot delete category with articles", env.Error)
}

func (s *RouterSuite) TestUnknownRoute() {
	w, env := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Route not found", env.Error)
}

func (s *RouterSuite) TestHealthEndpoints() {
	w, _ := s.do(http.MethodGet, "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/health/db", "", nil)
	s.Equal(http.StatusOK, w.Code)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	w, _ = s.do(http.MethodGet, "/api/v1/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api/v1/health/db", "", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("Database unavailable", env.Error)
}

func (s *RouterSuite) TestCommentModerationFlow() {
	_, alice := s.register("alice")
	_, bob := s.register("bob")
	admin := testutil.CreateUser(s.T(), s.db, "root", models.RoleAdmin)
	adminToken, err := services.NewTokenService(testutil.JWTSecret, testutil.Config().JWT.ExpiresIn).Issue(&admin)
	s.Require().NoError(err)

	post := s.createArticle(alice, "Discuss")
	commentsPath := fmt.Sprintf("/api/v1/articles/%d/comments", post.ID)

	w, env := s.do(http.MethodPost, commentsPath, bob, map[string]string{"content": "First!"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var comment struct {
		ID       uint64 `json:"id"`
		Approved bool   `json:"approved"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &comment))
	s.False(comment.Approved)

	_, env = s.do(http.MethodGet, commentsPath, "", nil)
	s.JSONEq(`[]`, string(env.Data))

	w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d/approve", comment.ID), alice, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d/approve", comment.ID), adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	_, env = s.do(http.MethodGet, commentsPath, "", nil)
	var comments []json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &comments))
	s.Len(comments, 1)

	w, env = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), alice, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("You can only delete your own comments", env.Error)
	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), bob, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestProjectListFiltersAndOrder() {
	_, token := s.register("alice")
	tech := testutil.CreateTechnology(s.T(), s.db, "Go", "go")

	for i, title := range []string{"Later", "Sooner"} {
		payload := map[string]interface{}{"title": title, "description": "x", "order": 2 - i}
		if title == "Later" {
			payload["technologyIds"] = []uint64{tech.ID}
			payload["featured"] = true
		}
		w, _ := s.do(http.MethodPost, "/api/v1/projects", token, payload)
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	var projects []struct {
		Slug string `json:"slug"`
	}
	_, env := s.do(http.MethodGet, "/api/v1/projects", "", nil)
	s.Require().NoError(json.Unmarshal(env.Data, &projects))
	s.Require().Len(projects, 2)
	s.Equal("sooner", projects[0].Slug)

	_, env = s.do(http.MethodGet, "/api/v1/projects?technology=go&featured=true", "", nil)
	s.Require().NoError(json.Unmarshal(env.Data, &projects))
	s.Require().Len(projects, 1)
	s.Equal("later", projects[0].Slug)

	w, env := s.do(http.MethodGet, "/api/v1/projects?status=DONE", "", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid status", env.Error)
}

func (s *RouterSuite) TestBackstopErrorIsCompressedEnvelope() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("gzip", w.Header().Get("Content-Encoding"))

	reader, err := gzip.NewReader(w.Body)
	s.Require().NoError(err)
	raw, err := io.ReadAll(reader)
	s.Require().NoError(err)

	var env envelope
	s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	s.False(env.Success)
	s.NotEmpty(env.Error)
}

func (s *RouterSuite) TestLowercaseStoredRoleIsNormalized() {
	admin := testutil.CreateUser(s.T(), s.db, "root", models.Role("admin"))
	token, err := services.NewTokenService(testutil.JWTSecret, testutil.Config().JWT.ExpiresIn).Issue(&admin)
	s.Require().NoError(err)

	w, _ := s.do(http.MethodPut, "/api/v1/stats/total_articles", token, map[string]string{"value": "7"})
	s.Equal(http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var user struct {
		Role string `json:"role"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &user))
	s.Equal("ADMIN", user.Role)
}

func (s *RouterSuite) TestUnknownStoredRoleIsRejected() {
	user := testutil.CreateUser(s.T(), s.db, "ghost", models.Role("superuser"))
	token, err := services.NewTokenService(testutil.JWTSecret, testutil.Config().JWT.ExpiresIn).Issue(&user)
	s.Require().NoError(err)

	w, env := s.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid or inactive user", env.Error)
}
