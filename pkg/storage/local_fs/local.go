// Package local_fs 本地文件系统存储
package local_fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"

	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/uploads"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save path is empty")
	}
	return &LocalFS{Config: conf}, nil
}

// objectKey 返回相对存储根目录的 key
func (p *LocalFS) objectKey(fileKey string) string {
	return fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + strings.TrimPrefix(fileKey, "/")
}

// fullPath 返回 key 对应的磁盘路径，拒绝越出存储根目录的 key
func (p *LocalFS) fullPath(key string) (string, error) {
	root := filepath.Clean(p.Config.SavePath)
	dst := filepath.Join(root, filepath.FromSlash(key))
	if dst != root && !strings.HasPrefix(dst, root+string(os.PathSeparator)) {
		return "", errors.Errorf("local_fs: invalid key %q", key)
	}
	return dst, nil
}

// SendFile 保存文件，返回相对 key
func (p *LocalFS) SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := p.objectKey(fileKey)
	dst, err := p.fullPath(key)
	if err != nil {
		return "", err
	}
	if err := fileurl.CreatePath(dst, 0o755); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		return "", errors.Wrap(err, "local_fs")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	return key, nil
}

func (p *LocalFS) SendContent(ctx context.Context, fileKey string, content []byte) (string, error) {
	return p.SendFile(ctx, fileKey, bytes.NewReader(content), "")
}

// Delete removes the stored object; a missing file is not an error.
func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	dst, err := p.fullPath(fileKey)
	if err != nil {
		return err
	}
	if !fileurl.IsExist(dst) {
		return nil
	}
	return errors.Wrap(os.Remove(dst), "local_fs")
}
