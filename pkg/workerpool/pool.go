// Package workerpool 提供有界并发的 Worker Pool，用于媒体上传与事件推送等后台任务
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// 错误定义
var (
	// ErrWorkerPoolFull 当任务队列已满时返回
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 当 Worker Pool 已关闭时返回
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 任务开始执行前 context 已取消
	ErrTaskCancelled = errors.New("task was cancelled")
	// ErrTaskPanic 任务执行时发生 panic
	ErrTaskPanic = errors.New("task panicked")
)

// Config Worker Pool 配置
type Config struct {
	// Name 用于日志区分不同的池
	Name string
	// MaxWorkers 最大并发 worker 数量，默认 16
	MaxWorkers int
	// QueueSize 任务队列大小，默认 256
	QueueSize int
	// WarningPercent 告警阈值百分比，默认 0.8
	WarningPercent float64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Name:           "default",
		MaxWorkers:     16,
		QueueSize:      256,
		WarningPercent: 0.8,
	}
}

type task struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool 固定数量 worker 的任务池
type Pool struct {
	config Config
	logger *zap.Logger

	taskCh   chan task
	workerWg sync.WaitGroup

	activeCount atomic.Int64
	doneCount   atomic.Uint64
	failedCount atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc

	// mu 保护 closed，入队时持有读锁，保证不会向已关闭的通道发送
	mu     sync.RWMutex
	closed bool
}

// New 创建新的 Worker Pool，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.Name != "" {
			c.Name = cfg.Name
		}
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
		if cfg.WarningPercent > 0 && cfg.WarningPercent <= 1 {
			c.WarningPercent = cfg.WarningPercent
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		config: c,
		logger: logger.With(zap.String("pool", c.Name)),
		taskCh: make(chan task, c.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < c.MaxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))

	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.taskCh:
			if !ok {
				return
			}
			p.run(t)
		}
	}
}

func (p *Pool) run(t task) {
	active := p.activeCount.Add(1)
	defer p.activeCount.Add(-1)

	if threshold := int64(float64(p.config.MaxWorkers) * p.config.WarningPercent); active >= threshold && threshold > 0 {
		p.logger.Warn("worker pool approaching capacity",
			zap.Int64("activeCount", active),
			zap.Int("maxWorkers", p.config.MaxWorkers))
	}

	err := p.call(t)
	if err != nil {
		p.failedCount.Add(1)
	}
	p.doneCount.Add(1)

	if t.done != nil {
		t.done <- err
	}
}

func (p *Pool) call(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker pool task panic", zap.Any("panic", r))
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	if t.ctx.Err() != nil {
		return ErrTaskCancelled
	}
	return t.fn(t.ctx)
}

func (p *Pool) enqueue(t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.taskCh <- t:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Submit 提交任务并等待完成
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	if err := p.enqueue(task{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrWorkerPoolClosed
	}
}

// Shutdown stops accepting tasks and waits for queued ones; on ctx expiry running tasks are abandoned.
// Shutdown 关闭 Worker Pool，等待队列中任务完成
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.taskCh)
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down",
		zap.Int64("activeCount", p.activeCount.Load()),
		zap.Int("queuedCount", len(p.taskCh)))

	done := make(chan struct{})
	go func() {
		p.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// Stats Worker Pool 指标
type Stats struct {
	Name          string
	MaxWorkers    int
	ActiveCount   int64
	QueuedCount   int
	QueueCapacity int
	Completed     uint64
	Failed        uint64
	IsClosed      bool
}

// Stats 获取当前指标
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	return Stats{
		Name:          p.config.Name,
		MaxWorkers:    p.config.MaxWorkers,
		ActiveCount:   p.activeCount.Load(),
		QueuedCount:   len(p.taskCh),
		QueueCapacity: p.config.QueueSize,
		Completed:     p.doneCount.Load(),
		Failed:        p.failedCount.Load(),
		IsClosed:      closed,
	}
}
