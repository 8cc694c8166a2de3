package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/store"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"go.uber.org/zap"
)

// StoreStatsTask 定期输出存储与协程池状态
type StoreStatsTask struct {
	stats    func() store.Stats
	pool     func() workerpool.Stats
	logger   *zap.Logger
	interval time.Duration
}

func (t *StoreStatsTask) Name() string {
	return "StoreStats"
}

func (t *StoreStatsTask) Run(ctx context.Context) error {
	s := t.stats()
	fields := []zap.Field{
		zap.Bool("signedIn", s.SignedIn),
		zap.Int("notes", s.Notes),
		zap.Int("sharedNotes", s.SharedNotes),
		zap.Int("subscribers", s.Subscribers),
		zap.Uint64("seq", s.Seq),
		zap.Uint64("droppedEvents", s.DroppedEvents),
	}
	if t.pool != nil {
		p := t.pool()
		fields = append(fields,
			zap.Int64("poolActive", p.ActiveCount),
			zap.Int("poolQueued", p.QueuedCount),
			zap.Uint64("poolFailed", p.Failed))
	}
	t.logger.Info("store stats", fields...)
	return nil
}

func (t *StoreStatsTask) Spec() string {
	return fmt.Sprintf("@every %s", t.interval)
}

func (t *StoreStatsTask) IsStartupRun() bool {
	return false
}

// NewStoreStatsTask 间隔为 0 时返回 nil
func NewStoreStatsTask(a *app.App) (Task, error) {
	interval := a.Config().GetStatsInterval()
	if interval <= 0 {
		return nil, nil
	}
	t := &StoreStatsTask{
		stats:    a.Store.Stats,
		logger:   a.Logger(),
		interval: interval,
	}
	if pool := a.WorkerPool(); pool != nil {
		t.pool = pool.Stats
	}
	return t, nil
}

func init() {
	Register(NewStoreStatsTask)
}
