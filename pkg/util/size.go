package util

import (
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses "20MB", "512KB", "1GB" or a bare byte count; fallback on empty or bad input.
// ParseSize 将 "20MB"、"512KB" 等解析为字节数，空值或非法值返回 fallback
func ParseSize(s string, fallback int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}
	var factor int64 = 1
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			factor = u.factor
			s = strings.TrimSuffix(s, u.suffix)
			break
		}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n * factor
}
