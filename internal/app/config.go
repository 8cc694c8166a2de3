// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/store"
	"github.com/haierkeys/fast-note-pad/pkg/storage"
	"github.com/haierkeys/fast-note-pad/pkg/util"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultAuthTokenKey 默认配置中的占位密钥，首次生成配置文件时被替换为随机值
const DefaultAuthTokenKey = "fast-note-pad-Auth-Token"

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Media    MediaConfig    `yaml:"media"`
	Storage  storage.Config `yaml:"storage"`
	Security SecurityConfig `yaml:"security"`
	Limiter  LimiterConfig  `yaml:"limiter"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到控制台
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug / release / test
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 监听地址
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时
	ReadTimeout string `yaml:"read-timeout" default:"60s"`
	// WriteTimeout 写入超时
	WriteTimeout string `yaml:"write-timeout" default:"60s"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof），为空则不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
}

// DatabaseConfig 数据库配置，只保存会话槽位与上传记录
type DatabaseConfig struct {
	// Type sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path        string `yaml:"path" default:"storage/database/db.sqlite3"`
	UserName    string `yaml:"username"`
	Password    string `yaml:"password"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"ssl-mode" default:"disable"`
	TablePrefix string `yaml:"table-prefix" default:"pad_"`
	Charset     string `yaml:"charset" default:"utf8mb4"`
	ParseTime   bool   `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m、1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// SignInDelay 模拟登录延迟
	SignInDelay string `yaml:"sign-in-delay" default:"1s"`
	// SeedDemoData 启动时加载演示笔记
	SeedDemoData bool `yaml:"seed-demo-data" default:"true"`
	// AvatarBaseURL 头像服务地址
	AvatarBaseURL string `yaml:"avatar-base-url" default:"https://api.dicebear.com/7.x/avataaars/svg"`
	// DefaultContextTimeout 请求上下文超时
	DefaultContextTimeout string `yaml:"default-context-timeout" default:"60s"`
	// EventBuffer 每个订阅者的事件缓冲
	EventBuffer int `yaml:"event-buffer" default:"64"`
	// IsReturnSussess 是否返回成功信息
	IsReturnSussess bool `yaml:"is-return-sussess" default:"true"`
	// StatsInterval 状态日志任务间隔，为空则关闭
	StatsInterval string `yaml:"stats-interval" default:"10m"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"16"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`
}

// MediaConfig 媒体上传配置
type MediaConfig struct {
	// UploadMaxSize 单个文件大小上限
	UploadMaxSize string `yaml:"upload-max-size" default:"20MB"`
	// ImageExts 允许的图片后缀
	ImageExts []string `yaml:"image-exts" default:"[\".png\",\".jpg\",\".jpeg\",\".gif\",\".webp\"]"`
	// VideoExts 允许的视频后缀
	VideoExts []string `yaml:"video-exts" default:"[\".mp4\",\".mov\",\".webm\"]"`
	// OrphanGrace 未被引用的上传文件保留时间
	OrphanGrace string `yaml:"orphan-grace" default:"1d"`
	// CleanupInterval 清理任务间隔
	CleanupInterval string `yaml:"cleanup-interval" default:"1h"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-note-pad-Auth-Token"`
	// TokenExpiry Token 过期时间，支持格式：7d、24h、30m
	TokenExpiry string `yaml:"token-expiry" default:"7d"`
}

// LimiterConfig 登录限流配置（令牌桶）
type LimiterConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	// FillInterval 令牌补充间隔
	FillInterval string `yaml:"fill-interval" default:"1s"`
	// Capacity 桶容量
	Capacity int64 `yaml:"capacity" default:"10"`
	// Quantum 每次补充的令牌数
	Quantum int64 `yaml:"quantum" default:"5"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent Jaeger agent 地址，为空时不上报 span
	JaegerAgent string `yaml:"jaeger-agent"`
	// ServiceName 上报的服务名
	ServiceName string `yaml:"service-name" default:"fast-note-pad"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig applies struct-tag defaults and then the YAML document on top, so keys
// present in the document (including explicit false or 0) win over defaults.
// ParseConfig 先填充默认值再解析 YAML，文件中显式写出的值优先
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate 校验配置中的时长、大小与枚举字段
func (c *AppConfig) Validate() error {
	durations := map[string]string{
		"server.read-timeout":         c.Server.ReadTimeout,
		"server.write-timeout":        c.Server.WriteTimeout,
		"app.sign-in-delay":           c.App.SignInDelay,
		"app.default-context-timeout": c.App.DefaultContextTimeout,
		"media.orphan-grace":          c.Media.OrphanGrace,
		"media.cleanup-interval":      c.Media.CleanupInterval,
		"app.stats-interval":          c.App.StatsInterval,
		"security.token-expiry":       c.Security.TokenExpiry,
		"limiter.fill-interval":       c.Limiter.FillInterval,
		"database.conn-max-lifetime":  c.Database.ConnMaxLifetime,
		"database.conn-max-idle-time": c.Database.ConnMaxIdleTime,
	}
	for key, v := range durations {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := util.ParseDuration(v); err != nil {
			return errors.Wrapf(err, "invalid duration for %s", key)
		}
	}
	if util.ParseSize(c.Media.UploadMaxSize, -1) < 0 {
		return errors.Errorf("invalid size for media.upload-max-size: %q", c.Media.UploadMaxSize)
	}
	switch c.Database.Type {
	case "sqlite", "mysql", "postgres":
	default:
		return errors.Errorf("unsupported database.type %q", c.Database.Type)
	}
	if c.Storage.IsEnabled && !storage.StorageTypeMap[c.Storage.Type] {
		return errors.Errorf("unsupported storage.type %q", c.Storage.Type)
	}
	return nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// IsDefaultSecret 是否仍在使用占位密钥
func (c *AppConfig) IsDefaultSecret() bool {
	k := strings.TrimSpace(c.Security.AuthTokenKey)
	return k == "" || k == DefaultAuthTokenKey
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()
	cfg.Name = "app"
	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	return cfg
}

// GetStoreConfig 获取会话与笔记存储配置
func (c *AppConfig) GetStoreConfig() store.Config {
	return store.Config{
		SignInDelay:   util.MustParseDuration(c.App.SignInDelay, time.Second),
		AvatarBaseURL: c.App.AvatarBaseURL,
		SeedDemoData:  c.App.SeedDemoData,
	}
}

// GetDatabaseConfig 转换为 DAO 层数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		Name:            c.Database.Name,
		SSLMode:         c.Database.SSLMode,
		TablePrefix:     c.Database.TablePrefix,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: util.MustParseDuration(c.Database.ConnMaxLifetime, 30*time.Minute),
		ConnMaxIdleTime: util.MustParseDuration(c.Database.ConnMaxIdleTime, 10*time.Minute),
		RunMode:         c.Server.RunMode,
	}
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.MustParseDuration(c.Security.TokenExpiry, 7*24*time.Hour)
}

// GetContextTimeout 获取请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return util.MustParseDuration(c.App.DefaultContextTimeout, 60*time.Second)
}

// GetReadTimeout / GetWriteTimeout HTTP 服务器超时
func (c *AppConfig) GetReadTimeout() time.Duration {
	return util.MustParseDuration(c.Server.ReadTimeout, 60*time.Second)
}

func (c *AppConfig) GetWriteTimeout() time.Duration {
	return util.MustParseDuration(c.Server.WriteTimeout, 60*time.Second)
}

// GetUploadMaxSize 单个媒体文件大小上限（字节）
func (c *AppConfig) GetUploadMaxSize() int64 {
	return util.ParseSize(c.Media.UploadMaxSize, 20<<20)
}

// GetOrphanGrace 未引用上传文件的保留时间
func (c *AppConfig) GetOrphanGrace() time.Duration {
	return util.MustParseDuration(c.Media.OrphanGrace, 24*time.Hour)
}

// GetCleanupInterval 媒体清理任务间隔
func (c *AppConfig) GetCleanupInterval() time.Duration {
	return util.MustParseDuration(c.Media.CleanupInterval, time.Hour)
}

// GetStatsInterval 状态日志任务间隔，未配置时返回 0
func (c *AppConfig) GetStatsInterval() time.Duration {
	return util.MustParseDuration(c.App.StatsInterval, 0)
}

// GetLimiterFillInterval 令牌补充间隔
func (c *AppConfig) GetLimiterFillInterval() time.Duration {
	return util.MustParseDuration(c.Limiter.FillInterval, time.Second)
}
