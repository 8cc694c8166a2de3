// Package metrics 导出 Prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/store"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "fast_note_pad"

// Sources 指标数据来源，字段为 nil 时不注册对应指标
type Sources struct {
	Store   func() store.Stats
	Pool    func() workerpool.Stats
	Clients func() (total, authorized int)
}

// Metrics 持有独立的 Registry，服务重建时不会与旧实例冲突
type Metrics struct {
	Registry *prometheus.Registry
	requests *prometheus.HistogramVec
	tasks    *prometheus.CounterVec
}

// New 创建 Registry 并注册运行时、存储、Worker Pool 与 WebSocket 指标
func New(src Sources) (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_runs_total",
			Help:      "Scheduled task runs by task and result.",
		}, []string{"task", "result"}),
	}

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.tasks,
	}

	if src.Store != nil {
		gauge := func(name, help string, f func(store.Stats) float64) prometheus.Collector {
			return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
				func() float64 { return f(src.Store()) })
		}
		cs = append(cs,
			gauge("signed_in", "1 when a session is active.", func(s store.Stats) float64 { return boolFloat(s.SignedIn) }),
			gauge("notes", "Personal notes held in the store.", func(s store.Stats) float64 { return float64(s.Notes) }),
			gauge("shared_notes", "Read-only shared notes held in the store.", func(s store.Stats) float64 { return float64(s.SharedNotes) }),
			gauge("store_subscribers", "Active store event subscribers.", func(s store.Stats) float64 { return float64(s.Subscribers) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{Namespace: namespace, Name: "store_events_total", Help: "Events published by the store."},
				func() float64 { return float64(src.Store().Seq) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{Namespace: namespace, Name: "store_events_dropped_total", Help: "Events dropped because a subscriber buffer was full."},
				func() float64 { return float64(src.Store().DroppedEvents) }),
		)
	}

	if src.Pool != nil {
		cs = append(cs,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: "workerpool_active", Help: "Tasks currently running on the worker pool."},
				func() float64 { return float64(src.Pool().ActiveCount) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: "workerpool_queued", Help: "Tasks waiting in the worker pool queue."},
				func() float64 { return float64(src.Pool().QueuedCount) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{Namespace: namespace, Name: "workerpool_failed_total", Help: "Worker pool tasks that returned an error or panicked."},
				func() float64 { return float64(src.Pool().Failed) }),
		)
	}

	if src.Clients != nil {
		cs = append(cs,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: "websocket_clients", Help: "Open websocket connections."},
				func() float64 { t, _ := src.Clients(); return float64(t) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: "websocket_clients_authorized", Help: "Websocket connections that passed authorization."},
				func() float64 { _, a := src.Clients(); return float64(a) }),
		)
	}

	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveRequest 记录一次 HTTP 请求耗时
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveTask 记录一次定时任务执行结果
func (m *Metrics) ObserveTask(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.tasks.WithLabelValues(name, result).Inc()
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
