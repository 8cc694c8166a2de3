package app

import (
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// gin 上下文键
const (
	// ContextLangKey 请求语言（code.NormalizeLang 之后的值）
	ContextLangKey = "lang"
	// ContextTransKey 校验错误翻译器
	ContextTransKey = "trans"
	// ContextTraceIDKey 请求追踪 ID
	ContextTraceIDKey = "trace_id"
	// ContextStatusCodeKey 响应使用的 HTTP 状态码，供访问日志读取
	ContextStatusCodeKey = "status_code"
)

// VersionInfo 版本信息
type VersionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Pager struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	TotalRows int `json:"totalRows"`
}

type ListRes struct {
	List  interface{} `json:"list"`
	Pager Pager       `json:"pager"`
}

// Res is the envelope shared by HTTP responses and websocket replies.
// Res 统一响应结构，HTTP 与 websocket 共用
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
	TraceID string      `json:"traceId,omitempty"`
}

// NewRes 按语言把 Code 转为响应结构
func NewRes(codeObj *code.Code, language string) Res {
	res := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.MsgIn(language),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		res.Details = strings.Join(codeObj.Details(), ",")
	}
	return res
}

type Response struct {
	Ctx *gin.Context
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{Ctx: ctx}
}

// GetRequestIP 获取客户端 IP，本机 IPv6 统一为 127.0.0.1
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// ToResponse writes codeObj in the request's language, tagged with its trace ID.
func (r *Response) ToResponse(codeObj *code.Code) {
	r.send(codeObj.StatusCode(), r.res(codeObj))
}

// ToResponseList 输出列表响应，Data 为当前页与分页信息
func (r *Response) ToResponseList(codeObj *code.Code, list interface{}, totalRows int) {
	res := r.res(codeObj)
	res.Data = ListRes{
		List:  list,
		Pager: *NewPager(r.Ctx, totalRows),
	}
	r.send(codeObj.StatusCode(), res)
}

func (r *Response) res(codeObj *code.Code) Res {
	res := NewRes(codeObj, r.Ctx.GetString(ContextLangKey))
	res.TraceID = r.Ctx.GetString(ContextTraceIDKey)
	return res
}

func (r *Response) send(statusCode int, content Res) {
	r.Ctx.Set(ContextStatusCodeKey, statusCode)
	r.Ctx.JSON(statusCode, content)
}
