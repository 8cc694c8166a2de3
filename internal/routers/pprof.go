package routers

import (
	"expvar"
	"net/http/pprof"

	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// DefaultPrefix pprof 路由前缀
const DefaultPrefix = "/debug/pprof"

var profiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// NewPrivateRouterWithLogger 创建私有路由：metrics、expvar，debug 模式下开启 pprof
func NewPrivateRouterWithLogger(runMode string, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	if runMode == "debug" {
		r.Use(gin.Recovery())
	} else {
		r.Use(middleware.RecoveryWithLogger(logger))
	}

	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	if runMode == "debug" {
		p := r.Group(DefaultPrefix)
		p.GET("/", gin.WrapF(pprof.Index))
		p.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		p.GET("/profile", gin.WrapF(pprof.Profile))
		p.Any("/symbol", gin.WrapF(pprof.Symbol))
		p.GET("/trace", gin.WrapF(pprof.Trace))
		for _, name := range profiles {
			p.GET("/"+name, gin.WrapH(pprof.Handler(name)))
		}
	}

	return r
}
