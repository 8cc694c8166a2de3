package middleware

import (
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator picks the request language from ?lang=, the lang header or
// Accept-Language, in that order. Response messages and validation errors both follow it.
// LangWithTranslator 选择请求语言与校验翻译器，默认 en
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := code.GetGlobalDefaultLang()
		for _, candidate := range []string{c.Query("lang"), c.GetHeader("lang"), c.GetHeader("Accept-Language")} {
			if l, ok := code.NormalizeLang(firstTag(candidate)); ok {
				lang = l
				break
			}
		}
		c.Set(app.ContextLangKey, lang)

		if uni != nil {
			// 校验翻译器以 zh / en 注册
			locale := "en"
			if lang == "zh_cn" {
				locale = "zh"
			}
			trans, found := uni.GetTranslator(locale)
			if !found {
				trans, _ = uni.GetTranslator("en")
			}
			c.Set(app.ContextTransKey, trans)
		}
		c.Next()
	}
}

// firstTag 取 Accept-Language 的第一个语言标签
func firstTag(s string) string {
	for i, r := range s {
		if r == ',' || r == ';' {
			return s[:i]
		}
	}
	return s
}
