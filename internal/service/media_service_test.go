package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorager 内存对象存储
type memStorager struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorager() *memStorager {
	return &memStorager{objects: map[string][]byte{}}
}

func (m *memStorager) SendFile(ctx context.Context, fileKey string, r io.Reader, cType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return m.SendContent(ctx, fileKey, b)
}

func (m *memStorager) SendContent(ctx context.Context, fileKey string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[fileKey] = content
	return fileKey, nil
}

func (m *memStorager) Delete(ctx context.Context, fileKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, fileKey)
	return nil
}

func (m *memStorager) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

var testMediaConfig = MediaConfig{
	MaxSize:     16,
	ImageExts:   []string{".png", ".jpg"},
	VideoExts:   []string{".mp4"},
	OrphanGrace: time.Hour,
}

func TestMediaUploadValidation(t *testing.T) {
	ctx := context.Background()
	body := func() io.Reader { return strings.NewReader("png") }

	anon := NewMediaService(newMemStorager(), newMemUploads(), newStore(t, false), nil, testMediaConfig, nil)
	_, err := anon.Upload(ctx, domain.MediaImage, "a.png", 3, body())
	assert.True(t, errors.Is(err, code.ErrorNotSignedIn))

	st := signedInStore(t, false)
	svc := NewMediaService(newMemStorager(), newMemUploads(), st, nil, testMediaConfig, nil)

	tests := []struct {
		name     string
		kind     domain.MediaKind
		filename string
		size     int64
		want     error
	}{
		{"bad kind", "audio", "a.png", 3, code.ErrorMediaKindInvalid},
		{"ext for other kind", domain.MediaImage, "a.mp4", 3, code.ErrorMediaExtInvalid},
		{"declared too large", domain.MediaImage, "a.png", 17, code.ErrorMediaTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.kind, tt.filename, tt.size, body())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	// 声明大小不可信时按实际读取字节判断
	_, err = svc.Upload(ctx, domain.MediaImage, "a.png", 1, bytes.NewReader(make([]byte, 32)))
	assert.True(t, errors.Is(err, code.ErrorMediaTooLarge))

	disabled := NewMediaService(nil, newMemUploads(), st, nil, testMediaConfig, nil)
	_, err = disabled.Upload(ctx, domain.MediaImage, "a.png", 3, body())
	assert.True(t, errors.Is(err, code.ErrorStorageDisabled))
}

func TestMediaUploadRecordsRow(t *testing.T) {
	ctx := context.Background()
	st := signedInStore(t, false)
	objects := newMemStorager()
	uploads := newMemUploads()
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer pool.Shutdown(ctx)

	svc := NewMediaService(objects, uploads, st, pool, testMediaConfig, nil)
	out, err := svc.Upload(ctx, domain.MediaVideo, "Clip.MP4", 4, strings.NewReader("clip"))
	require.NoError(t, err)

	assert.Equal(t, "video", out.Kind)
	assert.True(t, strings.HasPrefix(out.Key, "video/"))
	assert.True(t, strings.HasSuffix(out.Key, ".mp4"))
	assert.Equal(t, DefaultLocalPublicPath+"/"+out.Key, out.URL)
	assert.Equal(t, int64(4), out.Size)
	assert.True(t, objects.has(out.Key))

	n, err := uploads.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMediaCleanupOrphans(t *testing.T) {
	ctx := context.Background()
	st := signedInStore(t, false)
	objects := newMemStorager()
	uploads := newMemUploads()
	svc := NewMediaService(objects, uploads, st, nil, MediaConfig{
		ImageExts:   []string{".png"},
		PublicURL:   "https://cdn.example.com/",
		OrphanGrace: time.Hour,
	}, nil)

	kept, err := svc.Upload(ctx, domain.MediaImage, "kept.png", 1, strings.NewReader("k"))
	require.NoError(t, err)
	orphan, err := svc.Upload(ctx, domain.MediaImage, "orphan.png", 1, strings.NewReader("o"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(kept.URL, "https://cdn.example.com/image/"))

	_, err = NewNoteService(st, nil).Create(ctx, &dto.NoteCreateRequest{
		Title: "with media",
		Media: []dto.MediaDTO{{Kind: "image", URL: kept.URL}},
	})
	require.NoError(t, err)

	// 仍在保留期内，不做清理
	removed, err := svc.CleanupOrphans(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = svc.CleanupOrphans(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, objects.has(kept.Key))
	assert.False(t, objects.has(orphan.Key))

	n, err := uploads.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// slowStorager 在 release 关闭前阻塞写入，且不感知 ctx
type slowStorager struct {
	*memStorager
	started chan struct{}
	release chan struct{}
}

func (s *slowStorager) SendFile(ctx context.Context, fileKey string, r io.Reader, cType string) (string, error) {
	close(s.started)
	<-s.release
	return s.memStorager.SendFile(context.Background(), fileKey, r, cType)
}

// 调用方取消后仍写完的对象会被记录，随后可被孤儿清理回收
func TestMediaUploadCancelledCallerStillRecords(t *testing.T) {
	st := signedInStore(t, false)
	objects := &slowStorager{memStorager: newMemStorager(), started: make(chan struct{}), release: make(chan struct{})}
	uploads := newMemUploads()
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer pool.Shutdown(context.Background())

	svc := NewMediaService(objects, uploads, st, pool, testMediaConfig, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Upload(ctx, domain.MediaImage, "late.png", 4, strings.NewReader("late"))
		errCh <- err
	}()

	<-objects.started
	cancel()
	err := <-errCh
	assert.True(t, errors.Is(err, code.ErrorMediaUpload), "got %v", err)

	close(objects.release)
	require.Eventually(t, func() bool {
		n, err := uploads.Count(context.Background())
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	removed, err := svc.CleanupOrphans(context.Background(), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	objects.mu.Lock()
	assert.Empty(t, objects.objects)
	objects.mu.Unlock()
}
