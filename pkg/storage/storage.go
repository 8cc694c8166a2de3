// Package storage 媒体文件存储，支持本地文件系统、S3 兼容存储、阿里云 OSS 与 WebDAV
package storage

import (
	"context"
	"io"

	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/storage/aliyun_oss"
	"github.com/haierkeys/fast-note-pad/pkg/storage/aws_s3"
	"github.com/haierkeys/fast-note-pad/pkg/storage/local_fs"
	"github.com/haierkeys/fast-note-pad/pkg/storage/webdav"

	"go.uber.org/zap"
)

type Type = string

const (
	LOCAL  Type = "localfs"
	S3     Type = "s3"
	MinIO  Type = "minio"
	R2     Type = "r2"
	OSS    Type = "oss"
	WebDAV Type = "webdav"
)

var StorageTypeMap = map[Type]bool{
	LOCAL:  true,
	S3:     true,
	MinIO:  true,
	R2:     true,
	OSS:    true,
	WebDAV: true,
}

// Config Unified storage configuration
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	// Common settings
	IsEnabled  bool   `yaml:"is-enable" default:"true"`
	CustomPath string `yaml:"custom-path"`
	// PublicURL 返回给客户端的访问地址前缀，为空时本地存储使用 /uploads
	PublicURL string `yaml:"public-url"`

	// Cloud Storage (S3/MinIO/R2/OSS)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2 specific

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath       string `yaml:"save-path" default:"storage/uploads"`
	HttpfsIsEnable bool   `yaml:"httpfs-is-enable" default:"true"`
}

// Storager 存储后端；返回值为对象在后端中的完整 key
type Storager interface {
	SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error)
	SendContent(ctx context.Context, fileKey string, content []byte) (string, error)
	Delete(ctx context.Context, fileKey string) error
}

// NewClient 根据配置创建存储后端
func NewClient(ctx context.Context, config *Config, lg *zap.Logger) (Storager, error) {
	if config == nil || !StorageTypeMap[config.Type] {
		return nil, code.ErrorInvalidStorageType
	}
	if !config.IsEnabled {
		return nil, code.ErrorStorageDisabled
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	lg = lg.With(zap.String("storage", config.Type))

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3, MinIO, R2:
		cfg := &aws_s3.Config{
			Region:          config.Region,
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}
		switch config.Type {
		case MinIO:
			cfg.UsePathStyle = true
		case R2:
			cfg.Endpoint = aws_s3.R2Endpoint(config.AccountID)
			if cfg.Region == "" {
				cfg.Region = "auto"
			}
		}
		return aws_s3.NewClient(ctx, cfg, aws_s3.WithLogger(lg))
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}
	return nil, code.ErrorInvalidStorageType
}
