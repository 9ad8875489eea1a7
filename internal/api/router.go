package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cursos-uc/cursos-app/docs"
	"github.com/cursos-uc/cursos-app/internal/api/handler"
	"github.com/cursos-uc/cursos-app/internal/api/middleware"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

// Handlers groups the route handlers of the local API.
type Handlers struct {
	Session   *handler.SessionHandler
	Courses   *handler.CourseHandler
	Details   *handler.DetailHandler
	Lists     *handler.ListHandler
	Chat      *handler.ChatHandler
	Readiness *handler.ReadinessHandler

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
// identity gates the routes that need a signed-in user.
func NewRouter(h Handlers, identity ports.Identity, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if h.Registry != nil {
		reg, gatherer = h.Registry, h.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "cursosuc",
		Registerer: reg,
	}))

	// --- Probes and tooling (no session required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if h.Readiness != nil {
		e.GET("/health/ready", h.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authed := middleware.RequireSession(identity)
	g := e.Group("/api")

	// --- Session ---
	g.GET("/session", h.Session.Get)
	g.POST("/session/login", h.Session.Login)
	g.POST("/session/register", h.Session.Register)
	g.POST("/session/verify", h.Session.Verify)
	g.DELETE("/session", h.Session.Logout)

	// --- Catalog and search ---
	g.GET("/courses", h.Courses.List)
	g.POST("/courses/refresh", h.Courses.Refresh)
	g.POST("/courses/sort", h.Courses.Sort)
	g.POST("/search", h.Courses.Search)
	g.DELETE("/search", h.Courses.ClearSearch)

	// --- Course detail ---
	g.GET("/courses/:id", h.Details.Get)
	g.POST("/courses/:id/comments", h.Details.AddComment, authed)
	g.PUT("/courses/:id/comments/:commentId", h.Details.EditComment, authed)
	g.DELETE("/courses/:id/comments/:commentId", h.Details.DeleteComment, authed)
	g.POST("/courses/:id/lists/:listId", h.Details.AddToList, authed)
	g.GET("/me/comments", h.Details.MyComments, authed)

	// --- Lists ---
	lists := g.Group("/lists", authed)
	lists.GET("", h.Lists.List)
	lists.POST("", h.Lists.Create)
	lists.DELETE("/:id", h.Lists.Delete)
	lists.POST("/:id/courses", h.Lists.AddCourse)
	lists.DELETE("/:id/courses/:courseId", h.Lists.RemoveCourse)

	// --- Chat ---
	g.GET("/chat", h.Chat.History)
	g.POST("/chat", h.Chat.Send)
	g.DELETE("/chat", h.Chat.Clear)

	return e
}
