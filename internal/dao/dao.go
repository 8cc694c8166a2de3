// Package dao 实现数据访问层
package dao

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string // sqlite / mysql / postgres
	Path            string // sqlite 文件路径
	UserName        string
	Password        string
	Host            string
	Port            int
	Name            string
	SSLMode         string
	TablePrefix     string
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RunMode         string
}

// Dao 数据访问对象
type Dao struct {
	Db       *gorm.DB
	logger   *zap.Logger
	migrated sync.Map
	mu       sync.Mutex
}

// New 创建 Dao
func New(db *gorm.DB, lg *zap.Logger) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{Db: db, logger: lg}
}

// UseWithOnceFunc returns the DB after running fn once for key; used to migrate a table lazily.
// UseWithOnceFunc 对同一个 key 只执行一次 fn（通常是表迁移），然后返回 DB
func (d *Dao) UseWithOnceFunc(fn func(g *gorm.DB) error, key string) (*gorm.DB, error) {
	if _, ok := d.migrated.Load(key); ok {
		return d.Db, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.migrated.Load(key); ok {
		return d.Db, nil
	}
	if err := fn(d.Db); err != nil {
		d.logger.Error("dao migrate failed", zap.String("key", key), zap.Error(err))
		return nil, errors.Wrapf(err, "migrate %s", key)
	}
	d.migrated.Store(key, struct{}{})
	return d.Db, nil
}

// NewDBEngineWithConfig opens the database and applies pool limits and tracing.
// NewDBEngineWithConfig 打开数据库连接，设置连接池并启用链路追踪
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", c.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	} else {
		sqlDB.SetConnMaxLifetime(10 * time.Minute)
	}
	if c.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)
	}

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil && lg != nil {
		lg.Warn("gorm tracing plugin not installed", zap.Error(err))
	}

	return db, nil
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case "postgres":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		port := c.Port
		if port == 0 {
			port = 5432
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
			port,
			sslMode,
		)), nil
	case "sqlite", "":
		if c.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(c.Path), os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create sqlite dir")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}
