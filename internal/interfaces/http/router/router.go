package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration.
// Pages are served at the site root, so there is no API version prefix.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithTemplates loads the HTML templates from a glob pattern
func WithTemplates(glob string) RouterOption {
	return func(r *Router) {
		r.engine.SetFuncMap(template.FuncMap{
			"add": func(a, b int) int { return a + b },
		})
		r.engine.LoadHTMLGlob(glob)
	}
}

// WithStatic serves a directory under /static
func WithStatic(dir string) RouterOption {
	return func(r *Router) {
		r.engine.Static("/static", dir)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	root := r.engine.Group("")

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
