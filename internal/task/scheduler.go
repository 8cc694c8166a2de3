package task

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式，支持 @every 1h
	IsStartupRun() bool            // 启动时是否立即执行一次
}

// Observer 接收每次执行结果，用于指标统计
type Observer func(name string, err error)

// Scheduler runs tasks on a cron. A run still in progress when its next tick fires is
// skipped, and panics are recovered and logged.
// Scheduler 基于 cron 的任务调度器
type Scheduler struct {
	logger   *zap.Logger
	cron     *cron.Cron
	sc       *safe_close.SafeClose
	observe  Observer
	ctx      context.Context
	cancel   context.CancelFunc
	startups []Task
	count    int
	wg       sync.WaitGroup
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose, observe Observer) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:  logger,
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		sc:      sc,
		observe: observe,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) error {
	if _, err := s.cron.AddFunc(task.Spec(), func() { s.run(task, false) }); err != nil {
		return err
	}
	if task.IsStartupRun() {
		s.startups = append(s.startups, task)
	}
	s.count++
	return nil
}

func (s *Scheduler) run(task Task, startup bool) {
	start := time.Now()
	err := task.Run(s.ctx)
	if s.observe != nil {
		s.observe(task.Name(), err)
	}
	if err != nil {
		s.logger.Error("task running error", zap.String("name", task.Name()), zap.Bool("startupRun", startup), zap.Error(err))
		return
	}
	s.logger.Debug("task finished", zap.String("name", task.Name()), zap.Bool("startupRun", startup), zap.Duration("duration", time.Since(start)))
}

// Start 启动调度，收到关闭信号后停止并等待正在执行的任务
func (s *Scheduler) Start() {
	if s.count == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}
	s.logger.Info("tasks starting", zap.Int("count", s.count))

	for _, task := range s.startups {
		task := task
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("task panic", zap.String("name", task.Name()), zap.Any("recover", r))
				}
			}()
			s.run(task, true)
		}()
	}
	s.cron.Start()

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		s.cancel()
		<-s.cron.Stop().Done()
		s.wg.Wait()
		s.logger.Info("tasks stopped")
	})
}

// cronLogger 适配 cron.Logger 到 zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
