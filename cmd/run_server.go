package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/internal/routers"
	"github.com/haierkeys/fast-note-pad/internal/task"
	"github.com/haierkeys/fast-note-pad/pkg/logger"
	"github.com/haierkeys/fast-note-pad/pkg/safe_close"
	"github.com/haierkeys/fast-note-pad/pkg/tracer"
	"github.com/haierkeys/fast-note-pad/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// httpShutdownTimeout HTTP 服务关闭等待时间
const httpShutdownTimeout = 5 * time.Second

type Server struct {
	logger            *zap.Logger
	config            *internalApp.AppConfig
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App
	metrics           *metrics.Metrics
	tracerCloser      io.Closer
}

// checkSecurityConfigWithConfig 使用占位密钥时输出警告
func checkSecurityConfigWithConfig(cfg *internalApp.AppConfig, lg *zap.Logger) {
	if !cfg.IsDefaultSecret() {
		return
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("⚠️  SECURITY WARNING: Using default secret key!")
	fmt.Println()
	fmt.Println("Please modify 'security.auth-token-key' in config.yaml")
	fmt.Println("Generate a secure key with:")
	fmt.Println("  openssl rand -base64 32")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	lg.Warn("Using default secret key - please change security.auth-token-key in config.yaml")
}

func NewServer(runEnv *runFlags) (*Server, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(runEnv.port) > 0 {
		appConfig.Server.HttpPort = runEnv.port
		if !strings.Contains(appConfig.Server.HttpPort, ":") {
			appConfig.Server.HttpPort = ":" + appConfig.Server.HttpPort
		}
	}

	runMode := runEnv.runMode
	if len(runMode) <= 0 {
		runMode = appConfig.Server.RunMode
	}
	if len(runMode) > 0 {
		gin.SetMode(runMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	lg, err := logger.NewLogger(logger.Config{
		Level:      appConfig.Log.Level,
		File:       appConfig.Log.File,
		Production: appConfig.Log.Production,
	})
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}
	s.logger = lg

	checkSecurityConfigWithConfig(appConfig, s.logger)

	if err := initDirsWithConfig(appConfig); err != nil {
		return nil, fmt.Errorf("initDirs: %w", err)
	}

	db, err := dao.NewDBEngineWithConfig(appConfig.GetDatabaseConfig(), s.logger)
	if err != nil {
		return nil, fmt.Errorf("initDatabase: %w", err)
	}

	app, err := internalApp.NewApp(context.Background(), appConfig, s.logger, db)
	if err != nil {
		if sqlDB, e := db.DB(); e == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}
	s.app = app

	uni, err := validator.Setup()
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("initValidator: %w", err)
	}

	var tr opentracing.Tracer
	if appConfig.Tracer.Enabled {
		t, closer, err := tracer.NewJaegerTracer(appConfig.Tracer.ServiceName, appConfig.Tracer.JaegerAgent)
		if err != nil {
			s.logger.Warn("tracer init failed, spans disabled", zap.Error(err))
		} else {
			opentracing.SetGlobalTracer(t)
			tr = t
			s.tracerCloser = closer
		}
	}

	m, err := metrics.New(metrics.Sources{
		Store:   app.Store.Stats,
		Pool:    app.WorkerPool().Stats,
		Clients: app.Websocket.ClientCount,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("initMetrics: %w", err)
	}
	s.metrics = m

	initScheduler(s)

	banner := `
    ______           __     _   __      __          ____            __
   / ____/___ ______/ /_   / | / /___  / /____     / __ \____ _____/ /
  / /_  / __ '/ ___/ __/  /  |/ / __ \/ __/ _ \   / /_/ / __ '/ __  /
 / __/ / /_/ (__  ) /_   / /|  / /_/ / /_/  __/  / ____/ /_/ / /_/ /
/_/    \__,_/____/\__/  /_/ |_/\____/\__/\___/  /_/    \__,_/\__,_/   `
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		s.logger.Warn("api_router", zap.String("config.server.HttpPort", httpAddr))
		s.httpServer = &http.Server{
			Addr: httpAddr,
			Handler: routers.NewRouter(s.app, routers.Options{
				Translator: uni,
				Metrics:    m,
				Tracer:     tr,
			}),
			ReadTimeout:    appConfig.GetReadTimeout(),
			WriteTimeout:   appConfig.GetWriteTimeout(),
			MaxHeaderBytes: 1 << 20,
		}
		s.serve("api", s.httpServer)
	}

	if httpAddr := appConfig.Server.PrivateHttpListen; len(httpAddr) > 0 {
		s.logger.Info("api_router", zap.String("config.server.PrivateHttpListen", httpAddr))
		s.privateHttpServer = &http.Server{
			Addr:           httpAddr,
			Handler:        routers.NewPrivateRouterWithLogger(runMode, m, s.logger),
			ReadTimeout:    appConfig.GetReadTimeout(),
			WriteTimeout:   appConfig.GetWriteTimeout(),
			MaxHeaderBytes: 1 << 20,
		}
		s.serve("private api", s.privateHttpServer)
	}

	// App Container 优雅关闭
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal

		ctx, cancel := context.WithTimeout(context.Background(), internalApp.DefaultShutdownTimeout)
		defer cancel()

		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown app container", zap.Error(err))
		} else {
			s.logger.Info("App container shutdown gracefully")
		}
		if s.tracerCloser != nil {
			_ = s.tracerCloser.Close()
		}
		_ = s.logger.Sync()
	})

	return s, nil
}

// serve 挂载 HTTP 服务，出错时广播关闭信号，收到关闭信号时优雅停止
func (s *Server) serve(name string, srv *http.Server) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error(name+" service err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" service shutdown error", zap.Error(err))
			}
		}
	})
}

func initScheduler(s *Server) {
	manager := task.NewManager(s.logger, s.sc, s.app, s.metrics)
	if err := manager.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
		return
	}
	manager.Start()
}

// initDirsWithConfig 创建日志、数据库与本地上传目录
func initDirsWithConfig(cfg *internalApp.AppConfig) error {
	dirs := []string{filepath.Dir(cfg.Log.File)}
	if cfg.Database.Type == "sqlite" {
		dirs = append(dirs, filepath.Dir(cfg.Database.Path))
	}
	if cfg.Storage.IsEnabled && cfg.Storage.SavePath != "" {
		dirs = append(dirs, cfg.Storage.SavePath)
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
