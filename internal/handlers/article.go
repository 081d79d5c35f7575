package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/dto"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/middleware"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"github.com/yukikurage/folio-api/internal/response"
	"github.com/yukikurage/folio-api/internal/services"
	"github.com/yukikurage/folio-api/internal/utils"
)

type ArticleHandler struct {
	articleService *services.ArticleService
}

func NewArticleHandler(articleService *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// ListArticles returns a filtered page of articles.
// Filters: category, tag (id or slug), author (id, username or "me"), status, featured, search.
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	filter := repository.ArticleFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Pagination: utils.GetPaginationParams(c),
	}
	filter.CategoryID, filter.CategorySlug = idOrSlug(c.Query("category"))
	filter.TagID, filter.TagSlug = idOrSlug(c.Query("tag"))

	switch author := c.Query("author"); {
	case author == "":
	case author == "me":
		// Anonymous callers asking for their own articles get an empty page
		var userID uint64
		if identity, ok := middleware.GetIdentity(c); ok {
			userID = identity.UserID
		}
		filter.AuthorID = &userID
	default:
		if id, err := strconv.ParseUint(author, 10, 64); err == nil {
			filter.AuthorID = &id
		} else {
			filter.AuthorUsername = author
		}
	}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseArticleStatus(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = &status
	}

	featured, err := parseOptionalBool(c.Query("featured"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid featured value")
		return
	}
	filter.Featured = featured

	articles, total, err := h.articleService.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.List(c, dto.ToArticleDTOs(articles), response.NewPagination(filter.Pagination, total))
}

// GetArticle returns one article and counts the view
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid article ID")
		return
	}

	article, err := h.articleService.Get(c.Request.Context(), id)
	if err != nil {
		respondArticleError(c, err, "")
		return
	}

	response.OK(c, dto.ToArticleDTO(*article))
}

// CreateArticle creates an article owned by the caller
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateArticleRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Excerpt     *string    `json:"excerpt"`
		Content     string     `json:"content" binding:"required"`
		Status      string     `json:"status" binding:"omitempty,articlestatus"`
		Featured    bool       `json:"featured"`
		PublishedAt *time.Time `json:"publishedAt"`
		CategoryID  uint64     `json:"categoryId" binding:"required"`
		TagIDs      []uint64   `json:"tagIds"`
	}

	var req CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	var status models.ArticleStatus
	if req.Status != "" {
		status, _ = models.ParseArticleStatus(req.Status)
	}

	article, err := h.articleService.Create(c.Request.Context(), services.CreateArticleInput{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Status:      status,
		Featured:    req.Featured,
		PublishedAt: req.PublishedAt,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
		AuthorID:    userID,
	})
	if err != nil {
		respondArticleError(c, err, "")
		return
	}

	response.Created(c, dto.ToArticleDTO(*article), "Article created successfully")
}

// UpdateArticle applies a partial update; only the author may update
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid article ID")
		return
	}

	type UpdateArticleRequest struct {
		Title       *string    `json:"title" binding:"omitempty,max=255"`
		Excerpt     *string    `json:"excerpt"`
		Content     *string    `json:"content"`
		Status      *string    `json:"status" binding:"omitempty,articlestatus"`
		Featured    *bool      `json:"featured"`
		PublishedAt *time.Time `json:"publishedAt"`
		CategoryID  *uint64    `json:"categoryId"`
		TagIDs      *[]uint64  `json:"tagIds"`
	}

	var req UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateArticleInput{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Featured:    req.Featured,
		PublishedAt: req.PublishedAt,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	}
	if req.Status != nil {
		status, err := models.ParseArticleStatus(*req.Status)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	article, err := h.articleService.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		respondArticleError(c, err, "You can only update your own articles")
		return
	}

	response.OKWithMessage(c, dto.ToArticleDTO(*article), "Article updated successfully")
}

// DeleteArticle removes an article; only the author may delete
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid article ID")
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id, userID); err != nil {
		respondArticleError(c, err, "You can only delete your own articles")
		return
	}

	response.Message(c, "Article deleted successfully")
}

func respondArticleError(c *gin.Context, err error, ownerMessage string) {
	switch {
	case errors.Is(err, services.ErrArticleNotFound):
		apierrors.NotFound(c, "Article not found")
	case errors.Is(err, services.ErrNotArticleOwner):
		apierrors.Forbidden(c, ownerMessage)
	case errors.Is(err, services.ErrArticleSlugTaken):
		apierrors.BadRequest(c, "A article with this title already exists")
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.BadRequest(c, "Category not found")
	case errors.Is(err, services.ErrUnknownTags):
		apierrors.BadRequest(c, "One or more tags do not exist")
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Title cannot be empty")
	case errors.Is(err, services.ErrTitleWithoutSlug):
		apierrors.BadRequest(c, "Title must contain at least one letter or digit")
	default:
		_ = c.Error(err)
	}
}
