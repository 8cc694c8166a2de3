// Package aliyun_oss 阿里云 OSS 存储
package aliyun_oss

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

func NewClient(conf *Config) (*OSS, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aliyun_oss: bucket name is empty")
	}
	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return &OSS{Client: client, Bucket: bucket, Config: conf}, nil
}

func (p *OSS) objectKey(fileKey string) string {
	return fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + strings.TrimPrefix(fileKey, "/")
}

func (p *OSS) SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error) {
	key := p.objectKey(fileKey)
	opts := []oss.Option{oss.WithContext(ctx)}
	if cType != "" {
		opts = append(opts, oss.ContentType(cType))
	}
	if err := p.Bucket.PutObject(key, file, opts...); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return key, nil
}

func (p *OSS) SendContent(ctx context.Context, fileKey string, content []byte) (string, error) {
	return p.SendFile(ctx, fileKey, bytes.NewReader(content), "")
}

func (p *OSS) Delete(ctx context.Context, fileKey string) error {
	return errors.Wrap(p.Bucket.DeleteObject(fileKey, oss.WithContext(ctx)), "aliyun_oss")
}
