package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/response"
)

// Fixed messages shared by middleware and handlers.
const (
	MsgAccessTokenRequired     = "Access token required"
	MsgInvalidToken            = "Invalid or expired token"
	MsgInvalidUser             = "Invalid or inactive user"
	MsgAuthenticationRequired  = "Authentication required"
	MsgInsufficientPermissions = "Insufficient permissions"
	MsgInvalidCredentials      = "Invalid credentials"
	MsgInvalidRequestBody      = "Invalid request body"
	MsgRouteNotFound           = "Route not found"
	MsgInternalError           = "Internal server error"
	MsgTooManyRequests         = "Too many requests, please try again later"
	MsgPayloadTooLarge         = "Request body too large"
)

// RespondWithError sends an error envelope and stops the handler chain.
func RespondWithError(c *gin.Context, statusCode int, message string) {
	response.Fail(c, statusCode, message)
	c.Abort()
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = MsgAuthenticationRequired
	}
	RespondWithError(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, message)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, message)
}

func PayloadTooLarge(c *gin.Context) {
	RespondWithError(c, http.StatusRequestEntityTooLarge, MsgPayloadTooLarge)
}

func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, MsgTooManyRequests)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = MsgInternalError
	}
	RespondWithError(c, http.StatusInternalServerError, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, message)
}
