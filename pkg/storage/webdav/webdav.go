// Package webdav WebDAV 存储
package webdav

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config 结构体用于存储 WebDAV 连接信息。
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 结构体表示 WebDAV 客户端。
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

// NewClient 创建一个新的 WebDAV 客户端实例，不在创建时连接服务器
func NewClient(conf *Config) (*WebDAV, error) {
	if conf == nil || conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is empty")
	}
	return &WebDAV{
		Client: gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password),
		Config: conf,
	}, nil
}

func (w *WebDAV) objectKey(fileKey string) string {
	return fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + strings.TrimPrefix(fileKey, "/")
}

// SendFile 将文件写入 WebDAV 服务器，自动创建目录
func (w *WebDAV) SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := w.objectKey(fileKey)
	if dir := path.Dir(key); dir != "." {
		if err := w.Client.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "webdav")
		}
	}
	if err := w.Client.WriteStream(key, file, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return key, nil
}

func (w *WebDAV) SendContent(ctx context.Context, fileKey string, content []byte) (string, error) {
	return w.SendFile(ctx, fileKey, bytes.NewReader(content), "")
}

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Wrap(w.Client.Remove(fileKey), "webdav")
}
