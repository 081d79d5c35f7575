package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/constants"
)

// CORS allows the configured origin(s); a comma separated list is accepted
func CORS(origin string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	if origin == "*" {
		config.AllowAllOrigins = true
	} else {
		var origins []string
		for _, o := range strings.Split(origin, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", constants.HeaderRequestID}
	config.ExposeHeaders = []string{constants.HeaderRequestID}
	config.MaxAge = 12 * time.Hour
	return cors.New(config)
}
