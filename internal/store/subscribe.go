package store

import (
	"sync"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
)

// DefaultSubscriberBuffer 订阅通道默认缓冲
const DefaultSubscriberBuffer = 64

// Subscribe registers an observer. Events arrive in mutation order; when the
// channel buffer is full the event is dropped for that subscriber only.
// Events share note and user pointers across subscribers and must not be modified.
// cancel closes the channel and is safe to call more than once.
//
// Subscribe 注册观察者，事件按变更顺序送达；缓冲已满时该订阅者丢弃事件
func (s *Store) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan domain.Event, buffer)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// publish stamps the event and fans it out without blocking. Caller holds s.mu.
func (s *Store) publish(ev domain.Event) {
	s.seq++
	ev.Seq = s.seq
	ev.At = s.now()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.dropped.Add(1)
			s.logger.Warn("store event dropped",
				zap.Uint64("subscriber", id),
				zap.String(logger.FieldEvent, string(ev.Type)),
				zap.Uint64("seq", ev.Seq))
		}
	}
}
