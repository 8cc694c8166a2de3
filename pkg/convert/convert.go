package convert

import (
	"strconv"
	"strings"
)

// IntOr 解析十进制整数，失败时返回 fallback
func IntOr(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}
