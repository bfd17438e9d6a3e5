package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured browser origins to call the API with the
// session cookie. An empty list or "*" allows any origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AddAllowMethods("PATCH")
	config.AddAllowHeaders("Authorization")
	config.AddExposeHeaders("Content-Disposition", "Content-Length")
	config.MaxAge = 12 * time.Hour

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
		return cors.New(config)
	}

	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	return cors.New(config)
}
