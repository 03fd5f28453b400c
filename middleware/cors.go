// api/middleware/cors.go
package middleware

import (
	"net/http"

	"pawtrack/api/config"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides a Gin middleware function for handling Cross-Origin Resource Sharing.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Default to the Vite dev server; FE_ORIGIN overrides for
		// deployment. Avoid "*" so credentialed dashboard requests work.
		origin := "http://localhost:5173"
		if cfg.FrontendOrigin != "" {
			origin = cfg.FrontendOrigin
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)

		// Allow credentials (like cookies/sessions) to be sent with cross-origin requests.
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// Specify which headers can be used in the actual request.
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Admin-Key, accept, origin, Cache-Control, X-Requested-With")

		// Specify which HTTP methods are allowed for cross-origin requests.
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		// Handle preflight requests (OPTIONS method). Browsers send these before complex cross-origin requests.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent) // Respond with 204 No Content for preflight
			return
		}
		c.Next() // Continue processing the request chain
	}
}
