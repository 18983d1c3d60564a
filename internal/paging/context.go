package paging

import (
	"github.com/gin-gonic/gin"
)

const (
	// StateContextKey is the gin context key holding the request's *State.
	StateContextKey = "pagingState"
	// RouteContextKey is the gin context key holding the request's Route.
	RouteContextKey    = "pagingRoute"
	builderContextKey  = "pagingBuilder"
	defaultsContextKey = "pagingDefaults"
)

// Middleware installs the URL builder and the service-wide defaults on every
// request so that Page can hand them to the state it creates.
func Middleware(builder URLBuilder, defaults Defaults) gin.HandlerFunc {
	if builder == nil {
		builder = defaultBuilder
	}
	return func(c *gin.Context) {
		c.Set(builderContextKey, builder)
		c.Set(defaultsContextKey, defaults)
		c.Next()
	}
}

// SetRoute records the route the request was dispatched to. It overwrites
// any previous value, including the one on an already created State.
func SetRoute(c *gin.Context, module, controller, action string) {
	r := Route{Module: module, Controller: controller, Action: action}
	c.Set(RouteContextKey, r)
	if s, ok := stateFrom(c); ok {
		s.route = r
	}
}

// RouteFrom returns the route recorded by SetRoute.
func RouteFrom(c *gin.Context) Route {
	if v, ok := c.Get(RouteContextKey); ok {
		if r, ok := v.(Route); ok {
			return r
		}
	}
	return Route{}
}

// Page returns the pagination state of the request, creating it on first use
// from the query string and urlencoded form. Only the first call in a request
// constructs the state; later calls return it unchanged and ignore d.
// Without d the defaults installed by Middleware apply.
func Page(c *gin.Context, d ...Defaults) *State {
	if s, ok := stateFrom(c); ok {
		return s
	}

	var defaults Defaults
	if len(d) > 0 {
		defaults = d[0]
	} else if v, ok := c.Get(defaultsContextKey); ok {
		defaults, _ = v.(Defaults)
	}

	values := c.Request.URL.Query()
	if err := c.Request.ParseForm(); err == nil {
		values = c.Request.Form
	}

	s := New(values, defaults)
	s.route = RouteFrom(c)
	if v, ok := c.Get(builderContextKey); ok {
		if b, ok := v.(URLBuilder); ok {
			s.builder = b
		}
	}
	c.Set(StateContextKey, s)
	return s
}

func stateFrom(c *gin.Context) (*State, bool) {
	v, ok := c.Get(StateContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*State)
	return s, ok
}
