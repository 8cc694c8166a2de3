package service

import (
	"context"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/fileurl"
	"github.com/haierkeys/fast-note-pad/pkg/logger"
	"github.com/haierkeys/fast-note-pad/pkg/storage"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultLocalPublicPath 本地存储对外访问路径
const DefaultLocalPublicPath = "/uploads"

// MediaConfig 媒体服务配置
type MediaConfig struct {
	MaxSize   int64
	ImageExts []string
	VideoExts []string
	// PublicURL 访问地址前缀，返回的 URL 为 PublicURL + "/" + key
	PublicURL string
	// OrphanGrace 未被引用的上传保留时间
	OrphanGrace time.Duration
}

// MediaService 媒体上传业务服务接口
type MediaService interface {
	// Upload 保存媒体文件并返回可写入笔记的附件
	Upload(ctx context.Context, kind domain.MediaKind, filename string, size int64, r io.Reader) (*dto.UploadDTO, error)

	// CleanupOrphans removes uploads older than the grace period that no personal note references.
	// CleanupOrphans 删除超过保留期且未被任何笔记引用的上传文件
	CleanupOrphans(ctx context.Context, now time.Time) (int, error)
}

type mediaService struct {
	storager storage.Storager
	repo     domain.UploadRepository
	store    NoteStore
	pool     *workerpool.Pool
	config   MediaConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewMediaService 创建 MediaService；storager 为 nil 表示存储未启用
func NewMediaService(storager storage.Storager, repo domain.UploadRepository, store NoteStore, pool *workerpool.Pool, cfg MediaConfig, lg *zap.Logger) MediaService {
	if lg == nil {
		lg = zap.NewNop()
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = DefaultLocalPublicPath
	}
	return &mediaService{
		storager: storager,
		repo:     repo,
		store:    store,
		pool:     pool,
		config:   cfg,
		logger:   lg,
		now:      time.Now,
	}
}

func (s *mediaService) allowedExts(kind domain.MediaKind) []string {
	if kind == domain.MediaVideo {
		return s.config.VideoExts
	}
	return s.config.ImageExts
}

func (s *mediaService) Upload(ctx context.Context, kind domain.MediaKind, filename string, size int64, r io.Reader) (*dto.UploadDTO, error) {
	if _, err := requireUser(s.store); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, code.ErrorMediaKindInvalid.WithDetails("kind=" + string(kind))
	}
	if !fileurl.IsContainExt(filename, s.allowedExts(kind)) {
		return nil, code.ErrorMediaExtInvalid.WithDetails("file=" + filename)
	}
	if s.config.MaxSize > 0 && size > s.config.MaxSize {
		return nil, code.ErrorMediaTooLarge
	}
	if s.storager == nil {
		return nil, code.ErrorStorageDisabled
	}

	now := s.now()
	ext := fileurl.GetFileExt(filename)
	fileKey := string(kind) + "/" + fileurl.GetDatePath(now, "") + uuid.NewString() + ext
	body := &limitedReader{r: r, remaining: s.config.MaxSize}

	// 对象写入与记录在同一任务内完成，调用方提前取消时记录仍会落库，由孤儿清理回收
	var up *domain.Upload
	task := func(ctx context.Context) error {
		key, err := s.storager.SendFile(ctx, fileKey, body, mime.TypeByExtension(ext))
		if err != nil {
			return err
		}
		recordCtx := context.WithoutCancel(ctx)
		up, err = s.repo.Create(recordCtx, &domain.Upload{
			Kind:      kind,
			Key:       key,
			URL:       s.publicURL(key),
			Size:      body.read,
			CreatedAt: now,
		})
		if err != nil {
			// 记录失败时删除已写入的对象
			_ = s.storager.Delete(recordCtx, key)
			return errors.Wrap(err, "record upload")
		}
		return nil
	}
	if err := s.submit(ctx, task); err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, code.ErrorMediaTooLarge
		}
		if errors.Is(err, workerpool.ErrWorkerPoolFull) {
			return nil, code.ErrorTooManyRequests
		}
		s.logger.Error("media upload failed", zap.String(logger.FieldFileKey, fileKey), zap.Error(err))
		return nil, errors.Wrap(code.ErrorMediaUpload.WithDetails(err.Error()), "upload")
	}

	s.logger.Info("media uploaded",
		zap.String(logger.FieldKind, string(kind)),
		zap.String(logger.FieldFileKey, up.Key),
		zap.Int64(logger.FieldSize, up.Size))

	return &dto.UploadDTO{Kind: string(up.Kind), URL: up.URL, Key: up.Key, Size: up.Size}, nil
}

func (s *mediaService) submit(ctx context.Context, task func(context.Context) error) error {
	if s.pool == nil {
		return task(ctx)
	}
	return s.pool.Submit(ctx, task)
}

func (s *mediaService) publicURL(key string) string {
	return strings.TrimSuffix(s.config.PublicURL, "/") + "/" + key
}

func (s *mediaService) CleanupOrphans(ctx context.Context, now time.Time) (int, error) {
	if s.storager == nil {
		return 0, nil
	}
	uploads, err := s.repo.ListBefore(ctx, now.Add(-s.config.OrphanGrace))
	if err != nil {
		return 0, err
	}
	if len(uploads) == 0 {
		return 0, nil
	}

	referenced := make(map[string]bool)
	for _, n := range s.store.Notes() {
		for _, m := range n.Media {
			referenced[m.URL] = true
		}
	}

	removed := 0
	for _, up := range uploads {
		if referenced[up.URL] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := s.storager.Delete(ctx, up.Key); err != nil {
			s.logger.Warn("orphan media delete failed", zap.String(logger.FieldFileKey, up.Key), zap.Error(err))
			continue
		}
		if err := s.repo.Delete(ctx, up.ID); err != nil {
			s.logger.Warn("orphan media record delete failed", zap.Int64("id", up.ID), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

var errTooLarge = errors.New("media exceeds size limit")

// limitedReader counts bytes and fails once more than remaining bytes are read; remaining <= 0 disables the limit.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.remaining > 0 && l.read > l.remaining {
		return n, errTooLarge
	}
	return n, err
}
