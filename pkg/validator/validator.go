package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs validator/v10 into gin's binding with the project's own tags.
// CustomValidator 将 validator/v10 接入 gin binding，并注册项目自定义规则
type CustomValidator struct {
	Once     sync.Once
	Validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.Validate.Struct(obj)
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.Once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
		RegisterCustom(v.Validate)
	})
}

// MediaKinds 允许的媒体类型
var MediaKinds = map[string]bool{"image": true, "video": true}

// RegisterCustom registers the project tags:
//
//	mediakind  value is "image" or "video"
//	notblank   string is not empty after trimming whitespace
func RegisterCustom(v *validator.Validate) {
	_ = v.RegisterValidation("mediakind", func(fl validator.FieldLevel) bool {
		return MediaKinds[fl.Field().String()]
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()
	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}
