package code

import (
	"fmt"
	"net/http"
)

// Code is a numbered, bilingual result used both as a response envelope and as an error.
// Code 是带编号的双语结果，既用作响应包体也用作 error
type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers a failure code. Codes must be unique.
// NewError 注册失败码，编号不可重复
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code.
// NewSuss 注册成功码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本
func (e *Code) Clone() *Code {
	c := &Code{
		code:        e.code,
		status:      e.status,
		Lang:        e.Lang,
		data:        e.data,
		haveData:    e.haveData,
		haveDetails: e.haveDetails,
	}
	if e.details != nil {
		c.details = append([]string(nil), e.details...)
	}
	return c
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return fmt.Sprintf("%s: %v", e.Msg(), e.details)
	}
	return e.Msg()
}

// Is matches any Code carrying the same number, so a decorated copy still
// satisfies errors.Is against the registered value.
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

// MsgIn 返回指定语言的消息，空值使用全局默认语言
func (e *Code) MsgIn(language string) string {
	if language == "" {
		return e.Msg()
	}
	return e.Lang.In(language)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// WithData returns a copy carrying data; registered codes are shared and never mutated.
// WithData 返回携带数据的副本，已注册的码是共享的，不做修改
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetails returns a copy carrying details.
// WithDetails 返回携带详情的副本
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

func (e *Code) StatusCode() int {
	return http.StatusOK
}
