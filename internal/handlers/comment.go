package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/dto"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/middleware"
	"github.com/yukikurage/folio-api/internal/response"
	"github.com/yukikurage/folio-api/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns approved comments for an article
func (h *CommentHandler) ListComments(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid article ID")
		return
	}

	comments, err := h.commentService.ListApproved(c.Request.Context(), articleID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.OK(c, dto.ToCommentDTOs(comments))
}

// CreateComment adds a comment awaiting moderation
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	articleID, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid article ID")
		return
	}

	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required,max=5000"`
	}

	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), articleID, userID, req.Content)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Created(c, dto.ToCommentDTO(*comment), "Comment submitted for moderation")
}

func (h *CommentHandler) ApproveComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	comment, err := h.commentService.Approve(c.Request.Context(), id)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.OKWithMessage(c, dto.ToCommentDTO(*comment), "Comment approved")
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id, userID); err != nil {
		respondCommentError(c, err)
		return
	}

	response.Message(c, "Comment deleted successfully")
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrArticleNotFound):
		apierrors.NotFound(c, "Article not found")
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")
	case errors.Is(err, services.ErrNotCommentOwner):
		apierrors.Forbidden(c, "You can only delete your own comments")
	case errors.Is(err, services.ErrCommentEmpty):
		apierrors.BadRequest(c, "Comment content cannot be empty")
	default:
		_ = c.Error(err)
	}
}
