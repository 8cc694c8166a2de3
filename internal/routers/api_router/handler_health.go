package api_router

import (
	"runtime"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 检查数据库连接并返回存储与主机概况，关闭过程中返回失败
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	stats := h.App.Store.Stats()

	res := &dto.HealthDTO{
		Status:      "healthy",
		SignedIn:    stats.SignedIn,
		Notes:       stats.Notes,
		SharedNotes: stats.SharedNotes,
		Uptime:      time.Since(h.App.StartedAt()).Truncate(time.Second).String(),
		Goroutines:  runtime.NumGoroutine(),
		Database:    "connected",
	}

	// 主机指标获取失败不影响健康状态
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		res.MemUsedPct = vm.UsedPercent
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		res.Load1 = avg.Load1
	}

	if h.App.IsShuttingDown() {
		res.Status = "shutting_down"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(res))
		return
	}

	sqlDB, err := h.App.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.App.Logger().Warn("health check database ping failed", zap.Error(err))
		res.Status = "unhealthy"
		res.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(res))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}
