// api/middleware/auth_middleware.go
package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"pawtrack/api/config"

	"github.com/gin-gonic/gin"
)

// StatsAuth gates the stats endpoint behind the pre-shared admin key. When
// no secret is configured the check is skipped entirely (open access; main
// warns about this at startup).
func StatsAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.StatsSecret == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.StatsSecret)) != 1 {
			log.Println("StatsAuth: rejected request with missing or wrong admin key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
