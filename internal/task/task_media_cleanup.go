package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/service"

	"go.uber.org/zap"
)

// MediaOrphanCleanupTask 清理未被笔记引用的过期上传文件
type MediaOrphanCleanupTask struct {
	media    service.MediaService
	logger   *zap.Logger
	interval time.Duration
}

func (t *MediaOrphanCleanupTask) Name() string {
	return "MediaOrphanCleanup"
}

func (t *MediaOrphanCleanupTask) Run(ctx context.Context) error {
	removed, err := t.media.CleanupOrphans(ctx, time.Now())
	if err != nil {
		return err
	}
	if removed > 0 {
		t.logger.Info("media orphans removed", zap.Int("count", removed))
	}
	return nil
}

func (t *MediaOrphanCleanupTask) Spec() string {
	return fmt.Sprintf("@every %s", t.interval)
}

func (t *MediaOrphanCleanupTask) IsStartupRun() bool {
	return true
}

// NewMediaOrphanCleanupTask 存储未启用时返回 nil
func NewMediaOrphanCleanupTask(a *app.App) (Task, error) {
	if a.Storager == nil || a.MediaService == nil {
		return nil, nil
	}
	return &MediaOrphanCleanupTask{
		media:    a.MediaService,
		logger:   a.Logger(),
		interval: a.Config().GetCleanupInterval(),
	}, nil
}

func init() {
	Register(NewMediaOrphanCleanupTask)
}
