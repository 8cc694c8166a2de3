// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/service"
	"github.com/haierkeys/fast-note-pad/internal/store"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/storage"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	workerPool *workerpool.Pool

	// Repository 层
	KVRepo      domain.KVRepository
	SessionRepo domain.SessionRepository
	UploadRepo  domain.UploadRepository

	// 会话与笔记存储
	Store *store.Store
	// Storager 媒体存储，未启用时为 nil
	Storager storage.Storager

	// Service 层
	UserService  service.UserService
	NoteService  service.NoteService
	ShareService service.ShareService
	MediaService service.MediaService

	TokenManager pkgapp.TokenManager
	Websocket    *pkgapp.WebsocketServer

	startedAt   time.Time
	cancelEvent func()

	// 关闭控制
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewApp 创建应用容器实例，恢复持久化会话并启动事件推送
// cfg / logger / db 均为必需
func NewApp(ctx context.Context, cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		startedAt:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	a.Dao = dao.New(db, logger)
	a.KVRepo = dao.NewKVRepository(a.Dao)
	a.SessionRepo = dao.NewSessionRepository(a.KVRepo)
	a.UploadRepo = dao.NewUploadRepository(a.Dao)

	st, err := store.New(a.SessionRepo, cfg.GetStoreConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	if err := st.Restore(ctx); err != nil {
		// 槽位损坏时以未登录状态继续
		logger.Warn("session restore failed, starting signed out", zap.Error(err))
	}
	a.Store = st

	if cfg.Storage.IsEnabled {
		a.Storager, err = storage.NewClient(ctx, &cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Expiry:    cfg.GetTokenExpiry(),
	})

	a.UserService = service.NewUserService(st, a.TokenManager, logger)
	a.NoteService = service.NewNoteService(st, logger)
	a.ShareService = service.NewShareService(st)
	a.MediaService = service.NewMediaService(a.Storager, a.UploadRepo, st, a.workerPool, service.MediaConfig{
		MaxSize:     cfg.GetUploadMaxSize(),
		ImageExts:   cfg.Media.ImageExts,
		VideoExts:   cfg.Media.VideoExts,
		PublicURL:   a.mediaPublicURL(),
		OrphanGrace: cfg.GetOrphanGrace(),
	}, logger)

	a.Websocket = pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{}, a.UserService.Authorize, logger)
	a.startEventBridge()

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.String("storageType", cfg.Storage.Type),
		zap.Bool("storageEnabled", a.Storager != nil))

	return a, nil
}

// mediaPublicURL 本地存储且启用 httpfs 时由本服务提供访问
func (a *App) mediaPublicURL() string {
	if a.config.Storage.PublicURL != "" {
		return a.config.Storage.PublicURL
	}
	return service.DefaultLocalPublicPath
}

// ServeLocalUploads 是否需要由 HTTP 服务直接提供上传目录
func (a *App) ServeLocalUploads() bool {
	s := a.config.Storage
	return s.IsEnabled && s.Type == storage.LOCAL && s.HttpfsIsEnable
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// StartedAt 容器创建时间
func (a *App) StartedAt() time.Time {
	return a.startedAt
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Name:      Name,
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsReturnSuccess 是否返回成功响应
func (a *App) IsReturnSuccess() bool {
	return a.config.App.IsReturnSussess
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// Close 释放数据库连接
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	a.logger.Info("Database connection closed")
	return nil
}

// Shutdown 优雅关闭应用容器
// 顺序：停止事件推送 -> Worker Pool 与后台操作并行收尾 -> 关闭数据库
func (a *App) Shutdown(ctx context.Context) error {
	first := false
	a.shutdownOnce.Do(func() {
		first = true
		close(a.shutdownCh)
	})
	if !first {
		return nil
	}
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	if a.cancelEvent != nil {
		a.cancelEvent()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.workerPool.Shutdown(gctx); err != nil {
			return fmt.Errorf("worker pool shutdown: %w", err)
		}
		a.logger.Info("Worker pool shutdown completed")
		return nil
	})
	g.Go(func() error {
		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			a.logger.Info("All background operations completed")
			return nil
		case <-gctx.Done():
			return fmt.Errorf("background operations timeout: %w", gctx.Err())
		}
	})
	waitErr := g.Wait()
	if waitErr != nil {
		a.logger.Warn("App container shutdown wait error", zap.Error(waitErr))
	}

	if err := a.Close(); err != nil {
		if waitErr != nil {
			return fmt.Errorf("%v; %w", waitErr, err)
		}
		return err
	}
	if waitErr != nil {
		return waitErr
	}
	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待），返回完成回调
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return a.wg.Done
}
