package handlers

import (
	"errors"
	"strconv"
	"strings"

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

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns a filtered page of projects ordered by display order
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	filter := repository.ProjectFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Pagination: utils.GetPaginationParams(c),
	}
	filter.TechnologyID, filter.TechnologySlug = idOrSlug(c.Query("technology"))

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid author")
			return
		}
		filter.AuthorID = &id
	}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseProjectStatus(raw)
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

	projects, total, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.List(c, dto.ToProjectDTOs(projects), response.NewPagination(filter.Pagination, total))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		respondProjectError(c, err, "")
		return
	}

	response.OK(c, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Title         string   `json:"title" binding:"required,max=255"`
		Description   string   `json:"description" binding:"required"`
		Content       *string  `json:"content"`
		ImageURL      *string  `json:"imageUrl" binding:"omitempty,url,max=500"`
		DemoURL       *string  `json:"demoUrl" binding:"omitempty,url,max=500"`
		GithubURL     *string  `json:"githubUrl" binding:"omitempty,url,max=500"`
		Status        string   `json:"status" binding:"omitempty,projectstatus"`
		Featured      bool     `json:"featured"`
		Order         int      `json:"order"`
		TechnologyIDs []uint64 `json:"technologyIds"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	var status models.ProjectStatus
	if req.Status != "" {
		status, _ = models.ParseProjectStatus(req.Status)
	}

	project, err := h.projectService.Create(c.Request.Context(), services.CreateProjectInput{
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		ImageURL:      req.ImageURL,
		DemoURL:       req.DemoURL,
		GithubURL:     req.GithubURL,
		Status:        status,
		Featured:      req.Featured,
		Order:         req.Order,
		TechnologyIDs: req.TechnologyIDs,
		AuthorID:      userID,
	})
	if err != nil {
		respondProjectError(c, err, "")
		return
	}

	response.Created(c, dto.ToProjectDTO(*project), "Project created successfully")
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type UpdateProjectRequest struct {
		Title         *string   `json:"title" binding:"omitempty,max=255"`
		Description   *string   `json:"description"`
		Content       *string   `json:"content"`
		ImageURL      *string   `json:"imageUrl" binding:"omitempty,url,max=500"`
		DemoURL       *string   `json:"demoUrl" binding:"omitempty,url,max=500"`
		GithubURL     *string   `json:"githubUrl" binding:"omitempty,url,max=500"`
		Status        *string   `json:"status" binding:"omitempty,projectstatus"`
		Featured      *bool     `json:"featured"`
		Order         *int      `json:"order"`
		TechnologyIDs *[]uint64 `json:"technologyIds"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateProjectInput{
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		ImageURL:      req.ImageURL,
		DemoURL:       req.DemoURL,
		GithubURL:     req.GithubURL,
		Featured:      req.Featured,
		Order:         req.Order,
		TechnologyIDs: req.TechnologyIDs,
	}
	if req.Status != nil {
		status, err := models.ParseProjectStatus(*req.Status)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}

	project, err := h.projectService.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		respondProjectError(c, err, "You can only update your own projects")
		return
	}

	response.OKWithMessage(c, dto.ToProjectDTO(*project), "Project updated successfully")
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id, userID); err != nil {
		respondProjectError(c, err, "You can only delete your own projects")
		return
	}

	response.Message(c, "Project deleted successfully")
}

func respondProjectError(c *gin.Context, err error, ownerMessage string) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, ownerMessage)
	case errors.Is(err, services.ErrProjectSlugTaken):
		apierrors.BadRequest(c, "A project with this title already exists")
	case errors.Is(err, services.ErrUnknownTechnologies):
		apierrors.BadRequest(c, "One or more technologies do not exist")
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Title cannot be empty")
	case errors.Is(err, services.ErrTitleWithoutSlug):
		apierrors.BadRequest(c, "Title must contain at least one letter or digit")
	default:
		_ = c.Error(err)
	}
}
