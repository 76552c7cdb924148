package v1

import (
	"net/http"
	"time"

	"careers-portal-backend/config"
	"careers-portal-backend/internal/delivery/http/middleware"
	"careers-portal-backend/internal/delivery/http/response"
	"careers-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CareersUC domain.CareersUsecase
	Redis     *goredis.Client // nil enables the in-memory rate limit fallback
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Registrations carry file uploads; keep them behind a limiter.
	v1.Use(methodLimiter(http.MethodPost, middleware.RateLimit(deps.Redis, middleware.RateLimitConfig{
		Limit:     deps.Config.RateLimitUploadThreshold,
		Window:    time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second,
		KeyPrefix: "rl:careers:",
	})))

	NewCareersHandler(v1, deps.CareersUC)

	return r
}

// methodLimiter applies mw only to requests of the given method, so the
// read endpoints in the same group stay unthrottled.
func methodLimiter(method string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == method {
			mw(c)
			return
		}
		c.Next()
	}
}
