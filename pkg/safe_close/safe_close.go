// Package safe_close coordinates shutdown of attached goroutines.
// Package safe_close 协调已挂载协程的关闭
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached worker and waits for them.
// The first error passed to SendCloseSignal is kept and returned by WaitClosed.
//
// SafeClose 向所有挂载的协程广播关闭信号并等待其退出
type SafeClose struct {
	closeSignal chan struct{}
	once        sync.Once
	wg          sync.WaitGroup
	mu          sync.Mutex
	err         error
}

// NewSafeClose 创建 SafeClose
func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in a new goroutine. fn must call done when it returns and should
// return soon after closeSignal is closed.
// Attach 在新协程中运行 fn，fn 退出时必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeSignal)
}

// SendCloseSignal closes the signal channel. Safe to call more than once.
// SendCloseSignal 发送关闭信号，可重复调用
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()
	s.once.Do(func() { close(s.closeSignal) })
}

// Done 关闭信号通道
func (s *SafeClose) Done() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed 等待全部协程退出，返回第一个关闭原因
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
