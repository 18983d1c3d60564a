// File: internal/common/response.go
package common

import (
	"net/http"

	"pagination_backend/internal/paging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggerContextKey is the gin context key under which the request logger is stored.
const LoggerContextKey = "logger"

// SuccessResponse wraps successful API responses.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithError sends a JSON error response.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		if l, exists := c.Get(LoggerContextKey); exists {
			if logger, ok := l.(*zap.Logger); ok {
				logger.Error("Unhandled internal error being wrapped", zap.Error(err))
			}
		}
		apiErr = ErrInternalServer.WithDetails(err.Error())
		if gin.Mode() == gin.ReleaseMode {
			apiErr.Details = nil
		}
	}

	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// RespondSuccess sends a JSON success response.
func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	response := SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response.
func RespondOK(c *gin.Context, message string, data interface{}) {
	RespondSuccess(c, http.StatusOK, message, data)
}

// RespondCreated sends a 201 Created response.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	RespondSuccess(c, http.StatusCreated, message, data)
}

// PaginatedResponse structure for paginated data
type PaginatedResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// RespondPaginated sends a JSON response for paginated data, describing the
// page with the request's pagination state.
func RespondPaginated(c *gin.Context, message string, data interface{}, state *paging.State) {
	response := PaginatedResponse{
		Status:     "success",
		Message:    message,
		Data:       data,
		Pagination: NewPagination(state),
	}
	c.JSON(http.StatusOK, response)
}
