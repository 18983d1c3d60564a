// File: internal/paging/state.go
package paging

import (
	"math"
	"net/url"
	"strings"
)

const (
	// DefaultSize is the page size used when neither the request nor the caller supplies one.
	DefaultSize = 20
	// DefaultSort is the sort field used when neither the request nor the caller supplies one.
	DefaultSort = "id"

	DirAsc  = "asc"
	DirDesc = "desc"
)

// Defaults holds the caller-supplied fallbacks for a State.
// A zero field means "not provided".
type Defaults struct {
	Size int
	Sort string
	Dir  string
}

// Params is the parameter map handed to a URLBuilder.
type Params map[string]any

// State is the pagination state of a single request.
// It is not safe for use by multiple goroutines.
type State struct {
	page  int
	size  int
	sort  string
	dir   string
	count *int64
	all   int
	where Params

	route   Route
	builder URLBuilder
}

// New builds a State from the request parameter map.
func New(values url.Values, d Defaults) *State {
	s := &State{builder: defaultBuilder}

	s.page = atoi(values.Get(PageParam))
	if s.page < 1 {
		s.page = 1
	}

	switch size := atoi(values.Get(SizeParam)); {
	case size != 0:
		s.size = size
	case d.Size != 0:
		s.size = d.Size
	default:
		s.size = DefaultSize
	}
	if s.size < 1 {
		s.size = 1
	}
	// Keeps (page-1)*size within int.
	if maxPage := math.MaxInt/s.size + 1; s.page > maxPage {
		s.page = maxPage
	}

	switch {
	case values.Get(SortParam) != "":
		s.sort = values.Get(SortParam)
	case d.Sort != "":
		s.sort = d.Sort
	default:
		s.sort = DefaultSort
	}

	if dir, ok := normalizeDir(values.Get(DirParam)); ok {
		s.dir = dir
	} else if dir, ok := normalizeDir(d.Dir); ok {
		s.dir = dir
	} else {
		s.dir = DirDesc
	}

	return s
}

// atoi reads the leading base-10 integer of raw after trimming spaces, so
// "2.5" is 2 and "10abc" is 10. No digits means 0; out-of-range values
// saturate at the int bounds.
func atoi(raw string) int {
	raw = strings.TrimSpace(raw)
	neg := false
	if raw != "" && (raw[0] == '+' || raw[0] == '-') {
		neg = raw[0] == '-'
		raw = raw[1:]
	}

	n := 0
	for i := 0; i < len(raw) && raw[i] >= '0' && raw[i] <= '9'; i++ {
		d := int(raw[i] - '0')
		if n > (math.MaxInt-d)/10 {
			if neg {
				return math.MinInt
			}
			return math.MaxInt
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}

func normalizeDir(raw string) (string, bool) {
	switch dir := strings.ToLower(raw); dir {
	case DirAsc, DirDesc:
		return dir, true
	}
	return "", false
}

// SetCount records the number of matching rows, derives the page count and
// clamps the current page into [1, AllPages()]. It returns the stored count.
func (s *State) SetCount(n int64) int64 {
	s.count = &n

	all := n / int64(s.size)
	if n%int64(s.size) > 0 {
		all++
	}
	s.all = int(all)

	s.page = max(1, min(s.page, s.all))
	return n
}

// Count returns the stored row count and whether SetCount has been called.
func (s *State) Count() (int64, bool) {
	if s.count == nil {
		return 0, false
	}
	return *s.count, true
}

// AllPages returns ceil(count/size), or 0 before SetCount.
func (s *State) AllPages() int { return s.all }

func (s *State) CurrentPage() int { return s.page }
func (s *State) Size() int        { return s.size }
func (s *State) Sort() string     { return s.sort }
func (s *State) Dir() string      { return s.dir }

// Offset is always derived from the current page, so it reflects any clamp
// applied by SetCount.
func (s *State) Offset() int {
	off, _ := s.Limit()
	return off
}

// Limit returns the (offset, length) pair for the current page.
func (s *State) Limit() (offset, length int) {
	page := s.page
	if page == 0 {
		page = 1
	}
	return (page - 1) * s.size, s.size
}

// OrderBy returns the sort field and direction.
func (s *State) OrderBy() (sort, dir string) {
	return s.sort, s.dir
}

// HasPrev reports whether a previous page exists.
func (s *State) HasPrev() bool { return s.page > 1 }

// HasNext reports whether a following page exists. It is false until the
// count is known.
func (s *State) HasNext() bool {
	if s.count == nil {
		return false
	}
	return s.page < s.all
}

// Where returns the filter parameters merged into built URLs.
func (s *State) Where() Params { return s.where }

// SetWhere replaces the filter parameters. An empty, non-nil map still
// counts as set.
func (s *State) SetWhere(p Params) Params {
	s.where = p
	return s.where
}

// Route returns the route used as the default URL target.
func (s *State) Route() Route { return s.route }

// WithRoute sets the default URL target and returns s.
func (s *State) WithRoute(r Route) *State {
	s.route = r
	return s
}

// WithBuilder sets the URL builder and returns s. A nil builder restores the
// default PathBuilder.
func (s *State) WithBuilder(b URLBuilder) *State {
	if b == nil {
		b = defaultBuilder
	}
	s.builder = b
	return s
}
