package paging

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T, req *http.Request) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestPage_FirstCallWins(t *testing.T) {
	c := newTestContext(t, httptest.NewRequest(http.MethodGet, "/items?_page=2&_size=5", nil))

	first := Page(c, Defaults{Sort: "name"})
	second := Page(c, Defaults{Sort: "created_at", Size: 99})

	assert.Same(t, first, second)
	assert.Equal(t, "name", second.Sort())
	assert.Equal(t, 5, second.Size())
	assert.Equal(t, 2, second.CurrentPage())
}

func TestPage_IsScopedPerRequest(t *testing.T) {
	a := newTestContext(t, httptest.NewRequest(http.MethodGet, "/items?_page=2", nil))
	b := newTestContext(t, httptest.NewRequest(http.MethodGet, "/items?_page=3", nil))

	assert.NotSame(t, Page(a), Page(b))
	assert.Equal(t, 2, Page(a).CurrentPage())
	assert.Equal(t, 3, Page(b).CurrentPage())
}

func TestPage_ReadsUrlencodedForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/items?_sort=name", strings.NewReader("_page=4&_dir=ASC"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c := newTestContext(t, req)

	s := Page(c)
	assert.Equal(t, 4, s.CurrentPage())
	assert.Equal(t, "name", s.Sort())
	assert.Equal(t, "asc", s.Dir())
}

func TestMiddleware_InstallsBuilderAndDefaults(t *testing.T) {
	builder := NewPathBuilder("/api").Handle("catalog", "categories", "list", "/categories")

	var got string
	var size int
	r := gin.New()
	r.Use(Middleware(builder, Defaults{Size: 7}))
	r.GET("/categories", func(c *gin.Context) {
		SetRoute(c, "catalog", "categories", "list")
		s := Page(c)
		size = s.Size()
		got = s.URL("", "", "", Params{"page": 3})
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 7, size)
	assert.Equal(t, "/api/categories?_dir=desc&_page=3&_size=7&_sort=id", got)
}

func TestSetRoute_UpdatesExistingState(t *testing.T) {
	c := newTestContext(t, httptest.NewRequest(http.MethodGet, "/", nil))
	SetRoute(c, "a", "b", "c")
	s := Page(c)
	assert.Equal(t, Route{"a", "b", "c"}, s.Route())

	SetRoute(c, "x", "y", "z")
	assert.Equal(t, Route{"x", "y", "z"}, s.Route())
	assert.Equal(t, Route{"x", "y", "z"}, RouteFrom(c))
}

func TestRouteFrom_Unset(t *testing.T) {
	c := newTestContext(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, Route{}, RouteFrom(c))
}
