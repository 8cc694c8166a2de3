package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Setup installs CustomValidator as gin's binding validator, reports fields by their
// json names and registers en/zh translations.
// Setup 安装自定义验证器并注册中英文翻译
func Setup() (*ut.UniversalTranslator, error) {
	cv := NewCustomValidator()
	binding.Validator = cv

	validate := cv.Engine().(*validator.Validate)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New(), zh.New())
	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")
	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	return uni, nil
}
