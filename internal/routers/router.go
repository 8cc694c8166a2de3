package routers

import (
	"net/http"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	"github.com/haierkeys/fast-note-pad/internal/routers/api_router"
	"github.com/haierkeys/fast-note-pad/internal/routers/websocket_router"
	"github.com/haierkeys/fast-note-pad/internal/service"
	"github.com/haierkeys/fast-note-pad/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/opentracing/opentracing-go"
)

// Options 路由可选组件
type Options struct {
	Translator *ut.UniversalTranslator
	Metrics    *metrics.Metrics
	Tracer     opentracing.Tracer
}

// newLoginLimiter 登录接口令牌桶，未启用时返回 nil
func newLoginLimiter(a *app.App) limiter.Face {
	cfg := a.Config().Limiter
	if !cfg.Enabled {
		return nil
	}
	return limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key:          limiter.RuleKey(http.MethodPost, "/api/user/login"),
		FillInterval: a.Config().GetLimiterFillInterval(),
		Capacity:     cfg.Capacity,
		Quantum:      cfg.Quantum,
	})
}

// NewRouter 创建公开 HTTP 路由
func NewRouter(a *app.App, opts Options) *gin.Engine {
	cfg := a.Config()

	websocket_router.NewNoteWSHandler(a).Register(a.Websocket)

	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(a.Logger()))
	r.Use(middleware.Cors())

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, a.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header, opts.Tracer))
		api.Use(middleware.Metrics(opts.Metrics))
		api.Use(middleware.AccessLogWithLogger(a.Logger()))
		api.Use(middleware.RateLimiter(newLoginLimiter(a)))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.LangWithTranslator(opts.Translator))

		userHandler := api_router.NewUserHandler(a)
		noteHandler := api_router.NewNoteHandler(a)
		shareHandler := api_router.NewShareHandler(a)
		mediaHandler := api_router.NewMediaHandler(a)
		healthHandler := api_router.NewHealthHandler(a)
		versionHandler := api_router.NewVersionHandler(a)

		api.POST("/user/login", userHandler.Login)
		api.GET("/user/sync", a.Websocket.Run())
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", healthHandler.Check)

		auth := api.Group("", middleware.UserAuthToken(a.UserService.Authorize))
		{
			auth.POST("/user/logout", userHandler.Logout)
			auth.GET("/user/info", userHandler.Info)

			auth.GET("/notes", noteHandler.List)
			auth.GET("/note", noteHandler.Get)
			auth.POST("/note", noteHandler.Create)
			auth.PUT("/note", noteHandler.Update)
			auth.DELETE("/note", noteHandler.Delete)

			auth.GET("/shares", shareHandler.List)
			auth.GET("/share", shareHandler.Get)

			auth.POST("/media", mediaHandler.Upload)
		}
	}

	// 本地存储且未配置外部访问地址时由本服务提供上传文件
	if a.ServeLocalUploads() && cfg.Storage.PublicURL == "" {
		r.StaticFS(service.DefaultLocalPublicPath, http.Dir(cfg.Storage.SavePath))
	}
	r.NoRoute(middleware.NoFound())

	return r
}
