package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// 纯数字默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// MustParseDuration is ParseDuration with a fallback for empty or malformed input.
// MustParseDuration 解析失败或为空时返回 fallback
func MustParseDuration(s string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	d, err := ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
