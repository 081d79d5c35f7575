package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/dto"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/response"
	"github.com/yukikurage/folio-api/internal/services"
)

// TaxonomyHandler serves categories, tags and technologies
type TaxonomyHandler struct {
	taxonomyService *services.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
	}
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, dto.ToCategoryDTOs(categories))
}

func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	type CreateCategoryRequest struct {
		Name        string  `json:"name" binding:"required,max=100"`
		Description *string `json:"description"`
		Color       *string `json:"color" binding:"omitempty,max=20"`
	}

	var req CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.taxonomyService.CreateCategory(c.Request.Context(), services.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondTaxonomyError(c, err)
		return
	}

	response.Created(c, dto.ToCategoryDTO(*category), "Category created successfully")
}

// DeleteCategory fails while any article still references the category
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.taxonomyService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondTaxonomyError(c, err)
		return
	}

	response.Message(c, "Category deleted successfully")
}

func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.taxonomyService.ListTags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, dto.ToTagDTOs(tags))
}

func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	type CreateTagRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.taxonomyService.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		respondTaxonomyError(c, err)
		return
	}

	response.Created(c, dto.ToTagDTO(*tag), "Tag created successfully")
}

func (h *TaxonomyHandler) ListTechnologies(c *gin.Context) {
	technologies, err := h.taxonomyService.ListTechnologies(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, dto.ToTechnologyDTOs(technologies))
}

func (h *TaxonomyHandler) CreateTechnology(c *gin.Context) {
	type CreateTechnologyRequest struct {
		Name  string  `json:"name" binding:"required,max=100"`
		Icon  *string `json:"icon" binding:"omitempty,max=255"`
		Color *string `json:"color" binding:"omitempty,max=20"`
	}

	var req CreateTechnologyRequest
	if !bindJSON(c, &req) {
		return
	}

	technology, err := h.taxonomyService.CreateTechnology(c.Request.Context(), services.CreateTechnologyInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondTaxonomyError(c, err)
		return
	}

	response.Created(c, dto.ToTechnologyDTO(*technology), "Technology created successfully")
}

func respondTaxonomyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryTaken):
		apierrors.BadRequest(c, "A category with this name already exists")
	case errors.Is(err, services.ErrTagTaken):
		apierrors.BadRequest(c, "A tag with this name already exists")
	case errors.Is(err, services.ErrTechnologyTaken):
		apierrors.BadRequest(c, "A technology with this name already exists")
	case errors.Is(err, services.ErrCategoryInUse):
		apierrors.BadRequest(c, "Cannot delete category with articles")
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrNameWithoutSlug):
		apierrors.BadRequest(c, "Name must contain at least one letter or digit")
	default:
		_ = c.Error(err)
	}
}
