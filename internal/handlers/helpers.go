package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/folio-api/internal/constants"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/models"
)

var registerOnce sync.Once

// RegisterValidators installs the enum and password validators on gin's validator and
// makes field errors report JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("articlestatus", func(fl validator.FieldLevel) bool {
			_, err := models.ParseArticleStatus(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("projectstatus", func(fl validator.FieldLevel) bool {
			_, err := models.ParseProjectStatus(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) >= constants.MinPasswordLength
		})
	})
}

// bindJSON binds the body into obj and writes the 400/413 response on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		apierrors.PayloadTooLarge(c)
		return false
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		apierrors.BadRequest(c, validationMessage(validationErrs[0]))
		return false
	}

	apierrors.BadRequest(c, apierrors.MsgInvalidRequestBody)
	return false
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and numbers", field)
	case "articlestatus":
		return fmt.Sprintf("%s must be one of DRAFT, PUBLISHED, ARCHIVED", field)
	case "projectstatus":
		return fmt.Sprintf("%s must be one of PLANNING, IN_PROGRESS, COMPLETED, ON_HOLD", field)
	case "password":
		return fmt.Sprintf("%s must be at least %d characters", field, constants.MinPasswordLength)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func parseOptionalBool(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// idOrSlug splits a filter value into a numeric id or a slug
func idOrSlug(value string) (*uint64, string) {
	if value == "" {
		return nil, ""
	}
	if id, err := strconv.ParseUint(value, 10, 64); err == nil {
		return &id, ""
	}
	return nil, strings.ToLower(value)
}
