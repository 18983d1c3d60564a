package paging

import (
	"fmt"
	"net/url"
	"strings"
)

// Route identifies the handler a request was dispatched to. It is the
// default target of URLs built by a State.
type Route struct {
	Module     string
	Controller string
	Action     string
}

func (r Route) key() string {
	return r.Module + "/" + r.Controller + "/" + r.Action
}

// URLBuilder renders module/controller/action plus parameters into a URL.
type URLBuilder interface {
	Build(module, controller, action string, params Params) string
}

// URLBuilderFunc adapts a function to URLBuilder.
type URLBuilderFunc func(module, controller, action string, params Params) string

func (f URLBuilderFunc) Build(module, controller, action string, params Params) string {
	return f(module, controller, action, params)
}

var defaultBuilder URLBuilder = &PathBuilder{}

// PathBuilder renders BasePath + path + "?" + query. The path is the one
// registered for the route, or /module/controller/action otherwise.
type PathBuilder struct {
	BasePath string
	routes   map[string]string
}

// NewPathBuilder creates a PathBuilder rooted at basePath.
func NewPathBuilder(basePath string) *PathBuilder {
	return &PathBuilder{
		BasePath: strings.TrimRight(basePath, "/"),
		routes:   make(map[string]string),
	}
}

// Handle registers the path served by module/controller/action.
// Registration is expected during route setup, before requests are served.
func (b *PathBuilder) Handle(module, controller, action, path string) *PathBuilder {
	if b.routes == nil {
		b.routes = make(map[string]string)
	}
	b.routes[Route{module, controller, action}.key()] = "/" + strings.Trim(path, "/")
	return b
}

// Build implements URLBuilder.
func (b *PathBuilder) Build(module, controller, action string, params Params) string {
	path, ok := b.routes[Route{module, controller, action}.key()]
	if !ok {
		var parts []string
		for _, p := range []string{module, controller, action} {
			if p != "" {
				parts = append(parts, url.PathEscape(p))
			}
		}
		path = "/" + strings.Join(parts, "/")
	}

	query := make(url.Values, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case []string:
			query[k] = append(query[k], val...)
		default:
			query.Set(k, fmt.Sprint(val))
		}
	}

	u := b.BasePath + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}
