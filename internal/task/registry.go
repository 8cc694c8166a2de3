package task

import (
	"sync"

	"github.com/haierkeys/fast-note-pad/internal/app"
)

// TaskFactory 任务工厂函数，返回 nil 任务表示按配置禁用
type TaskFactory func(a *app.App) (Task, error)

var (
	taskRegistry  []TaskFactory
	registryMutex sync.RWMutex
)

// Register 注册任务工厂函数，通常在任务文件的 init() 中调用
func Register(factory TaskFactory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	taskRegistry = append(taskRegistry, factory)
}

// GetFactories 获取所有已注册的任务工厂（副本）
func GetFactories() []TaskFactory {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	factories := make([]TaskFactory, len(taskRegistry))
	copy(factories, taskRegistry)
	return factories
}
