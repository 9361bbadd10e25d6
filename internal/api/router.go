package api

import (
	"path/filepath"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/exercisetracker/exercise-api/docs"
	"github.com/exercisetracker/exercise-api/internal/api/handler"
	"github.com/exercisetracker/exercise-api/internal/api/middleware"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
	"github.com/exercisetracker/exercise-api/internal/infrastructure/http/handlers"
)

const metricsSubsystem = "exercise_tracker"

// Dependencies groups everything NewRouter wires into the Echo instance.
type Dependencies struct {
	Users     ports.UserService
	Exercises ports.ExerciseService
	// Checks are the readiness probes keyed by dependency name.
	Checks map[string]handlers.Check
	Logger zerolog.Logger

	PublicDir string
	ViewsDir  string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: d.Registerer,
	}))

	// --- API routes ---
	users := handler.NewUserHandler(d.Users)
	exercises := handler.NewExerciseHandler(d.Exercises)

	g := e.Group("/api/users")
	g.POST("", users.Create)
	g.GET("", users.List)
	g.POST("/:_id/exercises", exercises.Create)
	g.GET("/:_id/logs", exercises.Logs)

	// --- Health probes ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Checks).Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Static site ---
	if d.PublicDir != "" {
		e.Static("/", d.PublicDir)
	}
	if d.ViewsDir != "" {
		e.File("/", filepath.Join(d.ViewsDir, "index.html"))
	}

	return e
}
