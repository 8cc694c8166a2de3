package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.ErrorsToString(), ",")
}

// ErrorsToString 以 "key: message" 形式返回所有错误
func (v ValidErrors) ErrorsToString() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Key+": "+err.Message)
	}
	return errs
}

// MapsToString 以 key -> message 形式返回所有错误
func (v ValidErrors) MapsToString() map[string]string {
	errs := make(map[string]string, len(v))
	for _, err := range v {
		errs[err.Key] = err.Message
	}
	return errs
}

// BindAndValid binds the request into v and translates validation failures with the
// translator the lang middleware put on the context.
// BindAndValid 绑定并校验请求参数，校验错误使用语言中间件设置的翻译器翻译
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	var trans ut.Translator
	if t, exists := c.Get(ContextTransKey); exists {
		trans, _ = t.(ut.Translator)
	}
	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: e.Field(), Message: msg})
	}
	return false, errs
}
