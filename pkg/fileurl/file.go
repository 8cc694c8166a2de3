// Package fileurl 文件路径与文件名工具
package fileurl

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// GetFileExt gets file extension, lower-cased, with the leading dot
// GetFileExt 获取文件后缀（小写，含点）
func GetFileExt(name string) string {
	return strings.ToLower(path.Ext(name))
}

// GetDatePath gets date save path for t
// GetDatePath 获取日期保存路径，例如 202401/02/
func GetDatePath(t time.Time, timeFormat string) string {
	if timeFormat == "" {
		timeFormat = "200601/02"
	}
	return PathSuffixCheckAdd(t.Format(timeFormat), "/")
}

// IsContainExt determines if file extension is within the allowed range
// IsContainExt 判断文件后缀是否在允许范围内，allowExts 可带或不带点
func IsContainExt(name string, allowExts []string) bool {
	ext := GetFileExt(name)
	if ext == "" {
		return false
	}
	for _, allow := range allowExts {
		allow = strings.ToLower(allow)
		if !strings.HasPrefix(allow, ".") {
			allow = "." + allow
		}
		if allow == ext {
			return true
		}
	}
	return false
}

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的上级目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// PathSuffixCheckAdd checks path suffix, adds it if not exists
// PathSuffixCheckAdd 检查路径后缀，如果没有则添加；空路径原样返回
func PathSuffixCheckAdd(path string, suffix string) string {
	if path == "" {
		return path
	}
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}
