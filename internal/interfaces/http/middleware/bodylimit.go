package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velorie/ticketarchive/internal/shared/errors"
	"github.com/velorie/ticketarchive/internal/shared/utils"
)

// BodyLimit rejects bodies that declare more than maxBytes and caps the
// reader for those that do not declare a length. Handlers see an
// *http.MaxBytesError when the cap is hit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			utils.AbortWithError(c, errors.NewPayloadTooLargeError(
				"request body too large",
				fmt.Sprintf("limit is %d bytes", maxBytes)))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
