package middleware

import (
	"context"

	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/tracer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey gin 上下文中存储 Trace ID 的键
	TraceIDKey = app.ContextTraceIDKey
)

type traceIDKey struct{}

// TraceMiddlewareWithConfig starts a span per request and exposes a trace id.
// The id comes from the request header when present, then from the span, then a fresh uuid.
// The span is placed on the request context so database calls join the same trace.
//
// TraceMiddlewareWithConfig 为每个请求创建 span 并设置 Trace ID
func TraceMiddlewareWithConfig(enabled bool, header string, t opentracing.Tracer) gin.HandlerFunc {
	if header == "" {
		header = DefaultTraceIDHeader
	}
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		var span opentracing.Span
		if t != nil {
			parent, _ := t.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(c.Request.Header))
			span = t.StartSpan(c.Request.Method+" "+c.FullPath(), ext.RPCServerOption(parent))
			ext.HTTPMethod.Set(span, c.Request.Method)
			ext.HTTPUrl.Set(span, c.Request.URL.Path)
			ctx = opentracing.ContextWithSpan(ctx, span)
		}

		traceID := c.GetHeader(header)
		if traceID == "" {
			traceID = tracer.TraceID(span)
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Request = c.Request.WithContext(context.WithValue(ctx, traceIDKey{}, traceID))
		c.Header(header, traceID)

		c.Next()

		if span != nil {
			ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
			span.Finish()
		}
	}
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetTraceIDFromGin 从 gin.Context 获取 Trace ID
func GetTraceIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(TraceIDKey)
}
