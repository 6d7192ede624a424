package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireJSONPayload blocks requests that have no JSON body attached.
func RequireJSONPayload() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			slog.Debug("payload missing", slog.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payload missing"})
			return
		}
		if c.ContentType() != gin.MIMEJSON {
			slog.Debug("unexpected content type", slog.String("path", c.FullPath()), slog.String("contentType", c.ContentType()))
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": "expected application/json"})
			return
		}
		c.Next()
	}
}
