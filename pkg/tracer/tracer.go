// Package tracer 初始化 Jaeger 链路追踪
package tracer

import (
	"io"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	"github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewJaegerTracer creates a tracer reporting to agentHostPort. With an empty agent address
// spans are still created and carry trace ids but are never reported.
// NewJaegerTracer 创建 Jaeger Tracer，agent 地址为空时不上报
func NewJaegerTracer(serviceName, agentHostPort string) (opentracing.Tracer, io.Closer, error) {
	if agentHostPort == "" {
		t, closer := jaeger.NewTracer(serviceName, jaeger.NewConstSampler(true), jaeger.NewNullReporter())
		return t, closer, nil
	}
	cfg := &config.Configuration{
		ServiceName: serviceName,
		Sampler: &config.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &config.ReporterConfig{
			LogSpans:            false,
			BufferFlushInterval: time.Second,
			LocalAgentHostPort:  agentHostPort,
		},
	}
	t, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, nopCloser{}, err
	}
	return t, closer, nil
}

// TraceID 返回 span 的 Jaeger trace id，非 Jaeger span 返回空串
func TraceID(span opentracing.Span) string {
	if span == nil {
		return ""
	}
	if sc, ok := span.Context().(jaeger.SpanContext); ok {
		return sc.TraceID().String()
	}
	return ""
}
