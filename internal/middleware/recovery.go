package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
)

// Recovery turns panics into a 500 envelope. Outside production the
// panic value is returned as the error message.
func Recovery(log zerolog.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", GetRequestID(c)).
					Interface("error", rec).
					Msg("Panic recovered")
				if !c.Writer.Written() {
					apierrors.InternalError(c, publicMessage(fmt.Sprint(rec), production))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler answers errors pushed with c.Error that no handler responded to
func ErrorHandler(log zerolog.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log.Error().
			Str("request_id", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Err(err).
			Msg("Unhandled error")

		if c.Writer.Written() {
			return
		}
		apierrors.RespondWithError(c, http.StatusInternalServerError, publicMessage(err.Error(), production))
	}
}

func publicMessage(raw string, production bool) string {
	if production || raw == "" {
		return apierrors.MsgInternalError
	}
	return raw
}
