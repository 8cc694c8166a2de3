package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/pkg/fileurl"
	"github.com/haierkeys/fast-note-pad/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 配置文件路径
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				path, err := resolveConfigPath()
				if err != nil {
					bootstrapLogger.Error("config file auto create error", zap.Error(err))
					return
				}
				runEnv.config = path
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			// 配置文件写入后重建服务
			reload := make(chan struct{}, 1)
			w := watcher.New()
			w.SetMaxEvents(1)
			w.FilterOps(watcher.Write)
			go func() {
				for {
					select {
					case event := <-w.Event:
						s.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
						select {
						case reload <- struct{}{}:
						default:
						}
					case err := <-w.Error:
						s.logger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						return
					}
				}
			}()
			if err := w.Add(runEnv.config); err != nil {
				s.logger.Error("config watcher file error", zap.Error(err))
			}
			go func() {
				if err := w.Start(5 * time.Second); err != nil {
					s.logger.Error("config watcher start error", zap.Error(err))
				}
			}()
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case <-quit:
					s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
					s.sc.SendCloseSignal(nil)
					if err := s.sc.WaitClosed(); err != nil {
						s.logger.Error("Shutdown completed with error", zap.Error(err))
					} else {
						s.logger.Info("Service has been shut down gracefully.")
					}
					return

				case <-reload:
					// 旧服务完全退出后才能释放端口与数据库
					s.sc.SendCloseSignal(nil)
					if err := s.sc.WaitClosed(); err != nil {
						s.logger.Warn("previous server closed with error", zap.Error(err))
					}
					next, err := NewServer(runEnv)
					if err != nil {
						bootstrapLogger.Error("service restart err", zap.Error(err))
						return
					}
					s = next

				case <-s.sc.Done():
					// 服务自身出错退出
					err := s.sc.WaitClosed()
					s.logger.Error("service stopped", zap.Error(err))
					return
				}
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// resolveConfigPath 依次查找已有配置文件，均不存在时写入默认配置并替换占位密钥
func resolveConfigPath() (string, error) {
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	path := "config/config.yaml"
	content := strings.Replace(configDefault, internalApp.DefaultAuthTokenKey, util.GetRandomString(32), 1)

	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
	return path, nil
}
