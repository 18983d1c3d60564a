package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pagination_backend/internal/common"
	"pagination_backend/internal/config"
	"pagination_backend/internal/paging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) common.APIError {
	t.Helper()
	var body common.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDispatch_SetsRouteForPaging(t *testing.T) {
	r := gin.New()
	var route paging.Route
	var stateRoute paging.Route
	r.GET("/categories", Dispatch("catalog", "categories", "list"), func(c *gin.Context) {
		route = paging.RouteFrom(c)
		stateRoute = paging.Page(c).Route()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	want := paging.Route{Module: "catalog", Controller: "categories", Action: "list"}
	assert.Equal(t, want, route)
	assert.Equal(t, want, stateRoute)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/api-error", func(c *gin.Context) {
		_ = c.Error(common.ErrConflict.WithDetails("taken"))
	})
	r.GET("/plain-error", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("api error keeps its status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-error", nil))
		assert.Equal(t, http.StatusConflict, w.Code)
		body := decodeAPIError(t, w)
		assert.Equal(t, "CONFLICT", body.Code)
		assert.Equal(t, "taken", body.Details)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain-error", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeAPIError(t, w).Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeAPIError(t, w).Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ok", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeAPIError(t, w).Code)
	})

	t.Run("written responses pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(ZapLogger(logger, &config.Config{GinMode: gin.TestMode}))
	var scoped bool
	r.GET("/categories", Dispatch("catalog", "categories", "list"), func(c *gin.Context) {
		_, scoped = c.Get(common.LoggerContextKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/categories?_page=2", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.True(t, scoped)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("Request handled").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "_page=2", fields["query"])
	assert.Equal(t, "catalog", fields["module"])
	assert.Equal(t, "list", fields["action"])
	assert.EqualValues(t, http.StatusOK, fields["status_code"])
}

func TestZapLogger_GeneratesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(ZapLogger(zap.NewNop(), &config.Config{GinMode: gin.ReleaseMode}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
