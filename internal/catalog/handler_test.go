package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pagination_backend/internal/common"
	"pagination_backend/internal/middleware"
	"pagination_backend/internal/paging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type paginatedBody struct {
	Status     string             `json:"status"`
	Data       []CategoryResponse `json:"data"`
	Pagination common.Pagination  `json:"pagination"`
}

type singleBody struct {
	Status string           `json:"status"`
	Data   CategoryResponse `json:"data"`
}

func newTestRouter(t *testing.T, searcher Searcher) (*gin.Engine, Repository) {
	t.Helper()
	require.NoError(t, common.RegisterValidators())

	repo := NewGORMRepository(newTestDB(t))
	handler := NewHandler(NewService(repo, searcher, zap.NewNop()), zap.NewNop())

	urls := paging.NewPathBuilder("")
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	r.Use(paging.Middleware(urls, paging.Defaults{Size: 5, Sort: "name", Dir: "asc"}))
	handler.RegisterRoutes(r.Group("/api/v1"), urls)
	return r, repo
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ListCategories(t *testing.T) {
	r, repo := newTestRouter(t, nil)
	seedCategories(t, repo, 12)

	w := doRequest(r, http.MethodGet, "/api/v1/categories?_page=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body paginatedBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Category 06", "Category 07", "Category 08", "Category 09", "Category 10"}, responseNames(body.Data))

	p := body.Pagination
	assert.Equal(t, int64(12), p.TotalItems)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 5, p.PageSize)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/api/v1/categories?_dir=asc&_page=3&_size=5&_sort=name", p.Links.Next)
	assert.Equal(t, "/api/v1/categories?_dir=asc&_page=1&_size=5&_sort=name", p.Links.Prev)
	assert.Equal(t, "/api/v1/categories?_dir=asc&_page=3&_size=5&_sort=name", p.Links.Last)
}

func TestHandler_ListCategories_ClampsAndKeepsFilter(t *testing.T) {
	r, repo := newTestRouter(t, nil)
	seedCategories(t, repo, 12)

	w := doRequest(r, http.MethodGet, "/api/v1/categories?_page=50&_size=2&_dir=desc&name=category+1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body paginatedBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Category 10"}, responseNames(body.Data))
	assert.Equal(t, 2, body.Pagination.CurrentPage)
	assert.False(t, body.Pagination.HasNext)
	assert.Equal(t, "/api/v1/categories?_dir=desc&_page=2&_size=2&_sort=name&name=category+1", body.Pagination.Links.Self)
}

func TestHandler_ListCategories_UnsupportedSort(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/categories?_sort=secret", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SearchDisabled(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/categories/search?q=bike", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/categories/search", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_Search(t *testing.T) {
	searcher := new(MockSearcher)
	r, _ := newTestRouter(t, searcher)

	searcher.On("Search", mock.Anything, "bike", PageQuery{Offset: 0, Limit: 5, Sort: "name", Dir: "asc"}).
		Return(sampleCategories("bikes"), int64(1), nil).Once()

	w := doRequest(r, http.MethodGet, "/api/v1/categories/search?q=bike", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body paginatedBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, "/api/v1/categories/search?_dir=asc&_page=1&_size=5&_sort=name&q=bike", body.Pagination.Links.Self)
	searcher.AssertExpectations(t)
}

func TestHandler_CreateAndGet(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/categories", `{"name":"Bikes & Hikes"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created singleBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "bikes-and-hikes", created.Data.Slug)

	w = doRequest(r, http.MethodGet, "/api/v1/categories/bikes-and-hikes", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/categories/"+created.Data.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got singleBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.Data.ID, got.Data.ID)

	w = doRequest(r, http.MethodGet, "/api/v1/categories/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/categories", `{"name":"Bikes & Hikes"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_CreateValidation(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := doRequest(r, http.MethodPost, "/api/v1/categories", `{"name":"Bikes","slug":"no spaces!"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var apiErr struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Details, "Slug")

	w = doRequest(r, http.MethodPost, "/api/v1/categories", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func responseNames(categories []CategoryResponse) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}
