package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/store"

	"github.com/stretchr/testify/require"
)

// slot 内存会话槽位
type slot struct {
	mu   sync.Mutex
	user *domain.User
}

func (s *slot) Load(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone(), nil
}

func (s *slot) Save(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u.Clone()
	return nil
}

func (s *slot) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

func newStore(t *testing.T, seed bool) *store.Store {
	t.Helper()
	s, err := store.New(&slot{}, store.Config{SeedDemoData: seed}, nil)
	require.NoError(t, err)
	return s
}

func signedInStore(t *testing.T, seed bool) *store.Store {
	t.Helper()
	s := newStore(t, seed)
	_, err := s.SignIn(context.Background(), "alice@example.com")
	require.NoError(t, err)
	return s
}

// memUploads 内存上传记录仓储
type memUploads struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Upload
}

func newMemUploads() *memUploads {
	return &memUploads{rows: map[int64]*domain.Upload{}}
}

func (m *memUploads) Create(ctx context.Context, u *domain.Upload) (*domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c := *u
	c.ID = m.nextID
	m.rows[c.ID] = &c
	return &c, nil
}

func (m *memUploads) ListBefore(ctx context.Context, t time.Time) ([]*domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Upload
	for _, u := range m.rows {
		if u.CreatedAt.Before(t) {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memUploads) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memUploads) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}
