// Package aws_s3 S3 兼容对象存储，同时用于 MinIO 与 Cloudflare R2
package aws_s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	UsePathStyle    bool   `yaml:"use-path-style"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		s.logger = logger
	}
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*S3)
)

// R2Endpoint 返回 Cloudflare R2 账户的 S3 接入点
func R2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// NewClient 创建 S3 存储实例，相同接入点与密钥复用同一客户端
func NewClient(ctx context.Context, conf *Config, opts ...Option) (*S3, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket name is empty")
	}

	cacheKey := strings.Join([]string{conf.Endpoint, conf.Region, conf.BucketName, conf.AccessKeyID, conf.CustomPath}, "|")

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[cacheKey]; ok {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	c := &S3{
		S3Client: client,
		Config:   conf,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	clients[cacheKey] = c
	return c, nil
}

func (p *S3) objectKey(fileKey string) string {
	return fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + strings.TrimPrefix(fileKey, "/")
}

// SendFile uploads file with a known ContentLength. Bodies that cannot seek are
// buffered first; the SDK refuses unseekable streams on plain-HTTP endpoints.
// SendFile 上传文件，不可 Seek 的内容先读入内存
func (p *S3) SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error) {
	key := p.objectKey(fileKey)
	body, size, err := seekableBody(file)
	if err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.Config.BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if cType != "" {
		input.ContentType = aws.String(cType)
	}
	if _, err := p.S3Client.PutObject(ctx, input); err != nil {
		p.logger.Warn("s3 put object failed", zap.String("key", key), zap.Error(err))
		return "", errors.Wrap(err, "aws_s3")
	}
	return key, nil
}

func seekableBody(file io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := file.(io.ReadSeeker); ok {
		cur, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - cur, nil
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

func (p *S3) SendContent(ctx context.Context, fileKey string, content []byte) (string, error) {
	return p.SendFile(ctx, fileKey, bytes.NewReader(content), "")
}

func (p *S3) Delete(ctx context.Context, fileKey string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(fileKey),
	})
	return errors.Wrap(err, "aws_s3")
}
