// Package router mounts the HTTP handlers under the versioned API prefix.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar adds its routes to a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router owns the /api/<version> group of an engine
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" prefix segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// WithMiddleware adds handlers that run for API routes only
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.middleware = append(r.middleware, middleware...) }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every registered resource. Call it once, after Register.
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Route is one method and path with its handler chain
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

func Get(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodGet, Path: path, Handlers: handlers}
}

func Post(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodPost, Path: path, Handlers: handlers}
}

func Patch(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodPatch, Path: path, Handlers: handlers}
}

// Resource groups the routes of one area of the API under a shared prefix
// and middleware chain.
type Resource struct {
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
}

func (res Resource) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(res.Prefix, res.Middleware...)
	for _, route := range res.Routes {
		group.Handle(route.Method, route.Path, route.Handlers...)
	}
}
