package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/interfaces/http/dto"
)

// BodyLimit restricts the size of request bodies. Oversized requests with
// a declared Content-Length are rejected up front; chunked uploads fail at
// read time through http.MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
