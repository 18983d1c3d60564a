package paging

// Wire parameter names read from and written to URLs.
const (
	PageParam = "_page"
	SizeParam = "_size"
	SortParam = "_sort"
	DirParam  = "_dir"
)

// wireKeys maps the caller-facing keys accepted by URL to their wire names.
var wireKeys = []struct {
	generic string
	wire    string
	current func(*State) any
}{
	{"page", PageParam, func(s *State) any { return s.page }},
	{"size", SizeParam, func(s *State) any { return s.size }},
	{"sort", SortParam, func(s *State) any { return s.sort }},
	{"dir", DirParam, func(s *State) any { return s.dir }},
}

// URL renders a link to module/controller/action carrying the pagination
// state. Empty target parts fall back to the request route. A generic key
// (page, size, sort, dir) in params overrides the current value; the where
// filter is merged last and wins on collisions. params is not modified.
func (s *State) URL(module, controller, action string, params Params) string {
	if module == "" {
		module = s.route.Module
	}
	if controller == "" {
		controller = s.route.Controller
	}
	if action == "" {
		action = s.route.Action
	}
	return s.builder.Build(module, controller, action, s.urlParams(params))
}

func (s *State) urlParams(params Params) Params {
	out := make(Params, len(params)+len(wireKeys)+len(s.where))
	for k, v := range params {
		out[k] = v
	}

	for _, key := range wireKeys {
		v, ok := out[key.generic]
		delete(out, key.generic)
		if ok && v != nil {
			out[key.wire] = v
			continue
		}
		out[key.wire] = key.current(s)
	}

	for k, v := range s.where {
		out[k] = v
	}
	return out
}

// PageURL is URL for the current route with only the page overridden.
func (s *State) PageURL(page int, extra Params) string {
	params := make(Params, len(extra)+1)
	for k, v := range extra {
		params[k] = v
	}
	params["page"] = page
	return s.URL("", "", "", params)
}

// SortURL links to the first page sorted by field. Requesting the field that
// is already active flips the direction.
func (s *State) SortURL(field string) string {
	dir := DirAsc
	if field == s.sort && s.dir == DirAsc {
		dir = DirDesc
	}
	return s.URL("", "", "", Params{"page": 1, "sort": field, "dir": dir})
}
