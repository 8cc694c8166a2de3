package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang 双语消息
type lang struct {
	en    string
	zh_cn string
}

// FallbackLang 缺省语言
const FallbackLang = "en"

// 包级变量初始化早于 init，未设置时按 FallbackLang 处理
var defaultLang atomic.Value

// NormalizeLang maps request values such as "zh-CN", "zh" or "EN" onto a supported
// language. ok is false for anything else.
// NormalizeLang 归一化语言参数
func NormalizeLang(s string) (string, bool) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch {
	case s == "en" || strings.HasPrefix(s, "en_"):
		return "en", true
	case s == "zh" || strings.HasPrefix(s, "zh_"):
		return "zh_cn", true
	}
	return "", false
}

// In returns the message in language, falling back to English.
// In 返回指定语言的消息，缺失时回退到英文
func (l lang) In(language string) string {
	if language == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetMessage 使用全局默认语言
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// SetGlobalDefaultLang sets the process-wide default; per-request languages use Code.MsgIn.
// Unknown values reset the default to English.
func SetGlobalDefaultLang(language string) error {
	if l, ok := NormalizeLang(language); ok {
		defaultLang.Store(l)
		return nil
	}
	defaultLang.Store(FallbackLang)
	return errors.New("unsupported language type, set defaulting to " + FallbackLang)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	if l, ok := defaultLang.Load().(string); ok {
		return l
	}
	return FallbackLang
}
