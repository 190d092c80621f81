// Package router 提供 HTTP 路由配置
package router

import (
	"ai-author-api/internal/config"
	"ai-author-api/internal/infrastructure/persistence/redis"
	"ai-author-api/internal/interfaces/http/handler"
	"ai-author-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Health   *handler.HealthHandler
	Sample   *handler.SampleHandler
	Profile  *handler.ProfileHandler
	Generate *handler.GenerateHandler
	Post     *handler.PostHandler
	Job      *handler.JobHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	redis    *redis.Client
}

// New 创建新的路由器
func New(cfg *config.Config, handlers *Handlers, redisClient *redis.Client) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		redis:    redisClient,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	if r.cfg.Security.RateLimit.Enabled {
		r.engine.Use(middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			Enabled:           r.cfg.Security.RateLimit.Enabled,
			RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
			KeyPrefix:         r.cfg.App.Name,
		}, r.redis.Redis()))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	{
		// owner 维度的资源路由
		owners := v1.Group("/owners/:oid")
		owners.Use(middleware.OwnerContext())
		{
			owners.POST("/samples", r.handlers.Sample.AddSample)
			owners.GET("/samples", r.handlers.Sample.ListSamples)
			owners.GET("/samples/:sid", r.handlers.Sample.GetSample)
			owners.DELETE("/samples/:sid", r.handlers.Sample.DeleteSample)

			owners.POST("/profile/compute", r.handlers.Profile.ComputeProfile)
			owners.GET("/profile", r.handlers.Profile.GetProfile)

			owners.GET("/posts", r.handlers.Post.ListPosts)
			owners.GET("/jobs", r.handlers.Job.ListJobs)
		}

		// 内容生成
		v1.POST("/generate", r.handlers.Generate.Generate)
		v1.POST("/generate/async", r.handlers.Generate.GenerateAsync)

		// 按 ID 直接访问的资源路由
		v1.DELETE("/samples/:sid", r.handlers.Sample.DeleteSample)
		v1.GET("/posts/:pid", r.handlers.Post.GetPost)
		v1.GET("/posts/:pid/export", r.handlers.Post.ExportPost)
		v1.GET("/jobs/:jid", r.handlers.Job.GetJob)
	}
}
