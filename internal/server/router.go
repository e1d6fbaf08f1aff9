package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/organic-api/api/swagger"
	"github.com/noah-isme/organic-api/internal/handler"
	"github.com/noah-isme/organic-api/internal/middleware"
	"github.com/noah-isme/organic-api/internal/models"
	"github.com/noah-isme/organic-api/internal/service"
	"github.com/noah-isme/organic-api/pkg/config"
	"github.com/noah-isme/organic-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/organic-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/organic-api/pkg/middleware/requestid"
)

// Dependencies are the collaborators the router mounts.
type Dependencies struct {
	Auth        middleware.TokenValidator
	Metrics     *service.MetricsService
	Staff       *handler.StaffHandler
	CurrentUser *handler.CurrentUserHandler
	Probes      *handler.MetricsHandler
}

// NewRouter builds the gin engine with the global middleware chain and every route.
func NewRouter(cfg *config.Config, logr *zap.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(deps.Metrics))

	probes := deps.Probes
	if probes == nil {
		probes = handler.NewMetricsHandler(deps.Metrics, nil)
	}
	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	r.GET("/metrics", probes.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(deps.Auth))

	staff := api.Group("/staff", middleware.RequireRoles(models.RoleAdmin))
	{
		staff.GET("/all", deps.Staff.List)
		staff.GET("/get", deps.Staff.Get)
		staff.POST("/post", deps.Staff.Create)
		staff.PUT("/update", deps.Staff.Update)
		staff.DELETE("/delete", deps.Staff.Delete)
	}

	currentUser := api.Group("/currentUser", middleware.RequireRoles(models.RoleUser))
	{
		currentUser.GET("", deps.CurrentUser.Get)
		currentUser.GET("/emails", deps.CurrentUser.Emails)
		currentUser.POST("/last-online", deps.CurrentUser.UpdateLastOnline)
	}

	return r
}
