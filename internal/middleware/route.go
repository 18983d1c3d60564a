// File: internal/middleware/route.go
package middleware

import (
	"pagination_backend/internal/paging"

	"github.com/gin-gonic/gin"
)

// Dispatch records the module/controller/action a route belongs to, so
// pagination links default back to the handler that served the request.
func Dispatch(module, controller, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		paging.SetRoute(c, module, controller, action)
		c.Next()
	}
}
