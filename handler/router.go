package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type RouterOptions struct {
	// AccessLog enables the per-request log line.
	AccessLog bool
}

// NewRouter builds the echo instance serving the blog API. Only the /blogs
// routes reserve a store connection.
func NewRouter(h *Handler, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()
	e.Renderer = NewTemplateRegistry()
	e.HTTPErrorHandler = ErrorHandler

	if opts.AccessLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())

	e.GET("/", h.Root)
	e.GET("/healthz", h.Health)

	blogs := e.Group("/blogs", h.WithConnection)
	blogs.GET("", h.ListBlogs)
	blogs.POST("", h.CreateBlog)
	blogs.GET("/:id", h.GetBlog)
	blogs.GET("/:id/html", h.GetBlogHTML)

	return e
}
