package v1

import (
	"net/http"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC   domain.ContactUsecase
	HealthUC    usecase.HealthUsecase
	RedisClient *goredis.Client // optional, rate limiting falls back to memory
	Audit       *audit.Logger
	Config      *config.Config
	// Edge runs right after CORS, before request IDs and rate limiting
	Edge []gin.HandlerFunc
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		logger.Log.Error("Invalid TRUSTED_PROXIES, forwarding headers are ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(deps.Edge...)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	var contactMW []gin.HandlerFunc
	if deps.Config.RateLimitContactThreshold > 0 {
		contactMW = append(contactMW, middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(
			deps.Config.RateLimitContactThreshold,
			deps.Config.RateLimitWindow(),
			deps.RedisClient,
			deps.Audit,
		)))
	}
	NewContactHandler(api, deps.ContactUC, deps.Config.MaxBodyBytes, contactMW...)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Config.StaticDir != "" {
		site := gin.WrapH(http.FileServer(http.Dir(deps.Config.StaticDir)))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
				site(c)
				return
			}
			response.Error(c, http.StatusNotFound, "Not found", nil)
		})
	} else {
		r.NoRoute(func(c *gin.Context) {
			response.Error(c, http.StatusNotFound, "Not found", nil)
		})
	}

	return r
}
