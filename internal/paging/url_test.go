package paging

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBuilder captures the arguments of the last Build call.
type recordingBuilder struct {
	module, controller, action string
	params                     Params
}

func (r *recordingBuilder) Build(module, controller, action string, params Params) string {
	r.module, r.controller, r.action, r.params = module, controller, action, params
	return "built"
}

func TestURL_RewritesGenericKeysAndMergesWhere(t *testing.T) {
	rec := &recordingBuilder{}
	s := New(values(SizeParam, "10", SortParam, "name", DirParam, "asc"), Defaults{}).
		WithBuilder(rec).
		WithRoute(Route{"catalog", "categories", "list"})
	s.SetWhere(Params{"status": "active"})

	caller := Params{"page": 2, "extra": "x"}
	got := s.URL("", "", "", caller)

	assert.Equal(t, "built", got)
	assert.Equal(t, "catalog", rec.module)
	assert.Equal(t, "categories", rec.controller)
	assert.Equal(t, "list", rec.action)
	assert.Equal(t, Params{
		PageParam: 2,
		SizeParam: 10,
		SortParam: "name",
		DirParam:  "asc",
		"extra":   "x",
		"status":  "active",
	}, rec.params)
	assert.Equal(t, Params{"page": 2, "extra": "x"}, caller, "caller params must not be modified")
}

func TestURL_InjectsCurrentState(t *testing.T) {
	rec := &recordingBuilder{}
	s := New(values(PageParam, "4"), Defaults{}).WithBuilder(rec)

	s.URL("m", "c", "a", nil)

	assert.Equal(t, Params{PageParam: 4, SizeParam: DefaultSize, SortParam: "id", DirParam: "desc"}, rec.params)
	assert.Equal(t, "m", rec.module)
}

func TestURL_ExplicitTargetOverridesRoute(t *testing.T) {
	rec := &recordingBuilder{}
	s := New(nil, Defaults{}).WithBuilder(rec).WithRoute(Route{"catalog", "categories", "list"})

	s.URL("", "", "search", Params{"sort": "slug", "dir": "asc", "size": 5})

	assert.Equal(t, "catalog", rec.module)
	assert.Equal(t, "categories", rec.controller)
	assert.Equal(t, "search", rec.action)
	assert.Equal(t, "slug", rec.params[SortParam])
	assert.Equal(t, "asc", rec.params[DirParam])
	assert.Equal(t, 5, rec.params[SizeParam])
	assert.NotContains(t, rec.params, "sort")
	assert.NotContains(t, rec.params, "size")
}

func TestURL_WhereWinsOverCallerAndState(t *testing.T) {
	rec := &recordingBuilder{}
	s := New(nil, Defaults{}).WithBuilder(rec)
	s.SetWhere(Params{"extra": "from-where", SortParam: "forced"})

	s.URL("", "", "", Params{"extra": "from-caller", "sort": "name"})

	assert.Equal(t, "from-where", rec.params["extra"])
	assert.Equal(t, "forced", rec.params[SortParam])
}

func TestURL_NilGenericValueKeepsCurrent(t *testing.T) {
	rec := &recordingBuilder{}
	s := New(values(PageParam, "3"), Defaults{}).WithBuilder(rec)

	s.URL("", "", "", Params{"page": nil})

	assert.Equal(t, 3, rec.params[PageParam])
}

func TestPageURLAndSortURL(t *testing.T) {
	rec := &recordingBuilder{}
	s := New(values(SortParam, "name", DirParam, "asc"), Defaults{}).WithBuilder(rec)

	s.PageURL(7, Params{"q": "bikes"})
	assert.Equal(t, 7, rec.params[PageParam])
	assert.Equal(t, "bikes", rec.params["q"])

	s.SortURL("name")
	assert.Equal(t, "desc", rec.params[DirParam], "active field flips direction")
	assert.Equal(t, 1, rec.params[PageParam])

	s.SortURL("created_at")
	assert.Equal(t, "created_at", rec.params[SortParam])
	assert.Equal(t, "asc", rec.params[DirParam])
}

func TestPathBuilder_Build(t *testing.T) {
	b := NewPathBuilder("/api/v1/").Handle("catalog", "categories", "list", "categories")

	got := b.Build("catalog", "categories", "list", Params{
		PageParam: 2,
		SizeParam: 10,
		"name":    "bike & hike",
		"skip":    nil,
	})

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/categories", u.Path)
	assert.Equal(t, "2", u.Query().Get(PageParam))
	assert.Equal(t, "10", u.Query().Get(SizeParam))
	assert.Equal(t, "bike & hike", u.Query().Get("name"))
	assert.NotContains(t, u.Query(), "skip")
	assert.Equal(t, "/api/v1/categories?_page=2&_size=10&name=bike+%26+hike", got)
}

func TestPathBuilder_UnregisteredRoute(t *testing.T) {
	b := NewPathBuilder("")

	assert.Equal(t, "/shop/items/index", b.Build("shop", "items", "index", nil))
	assert.Equal(t, "/shop/index?tag=a&tag=b", b.Build("shop", "", "index", Params{"tag": []string{"a", "b"}}))
}

func TestURLBuilderFunc(t *testing.T) {
	var f URLBuilder = URLBuilderFunc(func(m, c, a string, p Params) string {
		return m + ":" + c + ":" + a
	})
	assert.Equal(t, "x:y:z", f.Build("x", "y", "z", nil))
}
