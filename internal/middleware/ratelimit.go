package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
)

// RateLimit limits each client IP to maxRequests requests per window. State is in-process.
func RateLimit(window time.Duration, maxRequests int, log zerolog.Logger) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: window,
		Limit:  int64(maxRequests),
	}
	instance := limiter.New(memory.NewStore(), rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			apierrors.TooManyRequests(c)
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.Error().Err(err).Msg("Rate limiter failed")
			_ = c.Error(err)
		}),
	)
}
