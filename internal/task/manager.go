package task

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器，m 为 nil 时不记录执行指标
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, a *app.App, m *metrics.Metrics) *Manager {
	var observe Observer
	if m != nil {
		observe = m.ObserveTask
	}
	return &Manager{
		scheduler: NewScheduler(logger, sc, observe),
		logger:    logger,
		app:       a,
	}
}

// RegisterTasks 从注册表创建并添加所有启用的任务
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		task, err := factory(m.app)
		if err != nil {
			return err
		}
		if task == nil {
			continue
		}
		if err := m.scheduler.AddTask(task); err != nil {
			return err
		}
		m.logger.Info("task registered", zap.String("name", task.Name()), zap.String("spec", task.Spec()))
	}
	return nil
}

// Start 启动调度
func (m *Manager) Start() {
	m.scheduler.Start()
}
