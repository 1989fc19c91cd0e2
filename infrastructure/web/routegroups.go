package web

import (
	"net/http"
	"strings"
)

type RouteGroup struct {
	webHandler *WebHandler
	prefix     string
	middleware []Middleware
}

func (wh *WebHandler) Group(prefix string, middleware ...Middleware) *RouteGroup {
	return &RouteGroup{
		webHandler: wh,
		prefix:     strings.TrimSuffix(prefix, "/"),
		middleware: middleware,
	}
}

func (g *RouteGroup) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	allMiddleware := make([]Middleware, 0, len(g.middleware)+len(middleware))
	allMiddleware = append(allMiddleware, g.middleware...)
	allMiddleware = append(allMiddleware, middleware...)
	fullPath := g.prefix + path
	g.webHandler.Handle(method, fullPath, handler, allMiddleware...)
}

func (g *RouteGroup) Group(prefix string, middleware ...Middleware) *RouteGroup {
	combinedMiddleware := make([]Middleware, 0, len(g.middleware)+len(middleware))
	combinedMiddleware = append(combinedMiddleware, g.middleware...)
	combinedMiddleware = append(combinedMiddleware, middleware...)
	return &RouteGroup{
		webHandler: g.webHandler,
		prefix:     g.prefix + strings.TrimSuffix(prefix, "/"),
		middleware: combinedMiddleware,
	}
}

// HandleRaw registers a plain http.Handler under the group prefix. Group
// middleware is not applied.
func (g *RouteGroup) HandleRaw(method, path string, handler http.Handler) {
	g.webHandler.HandleRaw(strings.ToUpper(method)+" "+g.prefix+path, handler)
}
