package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxBody caps the request body; multipart overhead is included in limit
func maxBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
