package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/handler"
	"github.com/noah-isme/internship-api/internal/middleware"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/internship-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/internship-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth        *handler.AuthHandler
	Students    *handler.StudentHandler
	Mentors     *handler.MentorHandler
	Employers   *handler.EmployerHandler
	Placements  *handler.PlacementHandler
	Evaluations *handler.EvaluationHandler
	Reports     *handler.ReportHandler
	Metrics     *handler.MetricsHandler
}

// Options configures the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	EnableMetrics  bool
	Logger         *zap.Logger
}

// New builds the gin engine with every route registered. Registration and
// token issuance are public; everything else under the prefix requires a
// bearer token.
func New(h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.EnableMetrics {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/", h.Metrics.Root)
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if opts.EnableMetrics {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	{
		api.POST("/token", h.Auth.Token)
		api.POST("/students", h.Students.Create)
		api.POST("/mentors", h.Mentors.Create)
		api.POST("/employers", h.Employers.Create)
	}

	secured := api.Group("", middleware.JWT(tokens))
	{
		secured.GET("/me", h.Auth.Me)

		students := secured.Group("/students")
		students.GET("", h.Students.List)
		students.GET("/:id", h.Students.Get)
		students.PATCH("/:id", h.Students.Update)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", h.Students.Delete)

		mentors := secured.Group("/mentors")
		mentors.GET("", h.Mentors.List)
		mentors.GET("/:id", h.Mentors.Get)
		mentors.PATCH("/:id", h.Mentors.Update)
		mentors.PUT("/:id", h.Mentors.Update)
		mentors.DELETE("/:id", h.Mentors.Delete)
		mentors.GET("/:id/students", h.Mentors.Students)
		mentors.PUT("/:id/students", h.Mentors.SetStudents)

		employers := secured.Group("/employers")
		employers.GET("", h.Employers.List)
		employers.GET("/:id", h.Employers.Get)
		employers.PATCH("/:id", h.Employers.Update)
		employers.PUT("/:id", h.Employers.Update)
		employers.DELETE("/:id", h.Employers.Delete)

		placements := secured.Group("/placements")
		placements.GET("", h.Placements.List)
		placements.POST("", h.Placements.Create)
		placements.GET("/:id", h.Placements.Get)
		placements.PATCH("/:id", h.Placements.Update)
		placements.PUT("/:id", h.Placements.Update)
		placements.DELETE("/:id", h.Placements.Delete)

		evaluations := secured.Group("/evaluations")
		evaluations.GET("", h.Evaluations.List)
		evaluations.POST("", h.Evaluations.Create)
		evaluations.GET("/:id", h.Evaluations.Get)
		evaluations.PATCH("/:id", h.Evaluations.Update)
		evaluations.PUT("/:id", h.Evaluations.Update)
		evaluations.DELETE("/:id", h.Evaluations.Delete)

		secured.GET("/reports/placements_per_employer", h.Reports.PlacementsPerEmployer)
		secured.GET("/reports/placements-per-employer", h.Reports.PlacementsPerEmployer)
		if opts.EnableMetrics {
			secured.GET("/metrics/summary", h.Metrics.Summary)
		}
	}

	return r
}
