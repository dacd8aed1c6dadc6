package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured origins (comma separated) plus localhost
// during development.
func ConfigCORS(allowedDomains string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			if strings.Contains(origin, "http://localhost") {
				return true
			}

			for _, domain := range strings.Split(allowedDomains, ",") {
				domain = strings.TrimSpace(domain)
				if domain != "" && strings.HasSuffix(origin, domain) {
					return true
				}
			}

			return false
		},
		MaxAge: 12 * time.Hour,
	})
}
