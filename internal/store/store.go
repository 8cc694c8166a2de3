// Package store holds the signed-in user together with the personal and shared
// note collections, and publishes an event after every applied mutation.
//
// Store 持有当前会话用户、个人笔记与共享笔记，每次变更后向订阅者发布事件
package store

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/diff"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultAvatarBaseURL 头像服务地址，seed 参数为登录邮箱
const DefaultAvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// userNamespace 用户 ID 的 UUIDv5 命名空间
var userNamespace = uuid.MustParse("5f0c7a52-2b8e-4d43-9d7c-0d6c3a1e6b21")

// Config 存储配置
type Config struct {
	// SignInDelay 模拟登录延迟
	SignInDelay time.Duration
	// AvatarBaseURL 头像服务地址
	AvatarBaseURL string
	// SeedDemoData 启动时加载演示笔记
	SeedDemoData bool
}

// Stats 存储状态快照
type Stats struct {
	SignedIn      bool
	Notes         int
	SharedNotes   int
	Subscribers   int
	Seq           uint64
	DroppedEvents uint64
}

// Option 存储可选项
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUIDv4 note id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// Store 会话与笔记存储
type Store struct {
	config   Config
	sessions domain.SessionRepository
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string

	// sessionMu serialises session writes so memory and the persisted slot agree on the last writer.
	sessionMu sync.Mutex

	mu     sync.RWMutex
	user   *domain.User
	notes  []*domain.Note
	shared []*domain.Note
	seq    uint64
	subs   map[uint64]chan domain.Event
	nextID uint64

	dropped atomic.Uint64
	loading atomic.Int32
}

// New creates a Store. sessions backs the persisted session slot.
// New 创建存储，sessions 为会话持久化槽位
func New(sessions domain.SessionRepository, cfg Config, lg *zap.Logger, opts ...Option) (*Store, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	if cfg.AvatarBaseURL == "" {
		cfg.AvatarBaseURL = DefaultAvatarBaseURL
	}
	s := &Store{
		config:   cfg,
		sessions: sessions,
		logger:   lg,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		notes:    []*domain.Note{},
		shared:   []*domain.Note{},
		subs:     make(map[uint64]chan domain.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.SeedDemoData {
		notes, shared, err := parseSeed(seedYAML, s.now(), s.newID)
		if err != nil {
			return nil, err
		}
		s.notes = notes
		s.shared = shared
	}
	return s, nil
}

// Restore loads the persisted session, if any. No event is published.
// Restore 从持久化槽位恢复会话
func (s *Store) Restore(ctx context.Context) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	u, err := s.sessions.Load(ctx)
	if err != nil {
		return errors.Wrap(code.ErrorSessionRestore.WithDetails(err.Error()), "restore session")
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	if u != nil {
		s.logger.Info("session restored", zap.String(logger.FieldUID, u.ID), zap.String(logger.FieldEmail, u.Email))
	}
	return nil
}

// SignIn builds the user for email after the configured delay, makes it the current
// session and persists it. Concurrent calls are not serialised against each other's
// delay; whichever finishes last owns both the in-memory session and the slot.
//
// SignIn 模拟登录：等待配置的延迟后根据邮箱构造用户、设为当前会话并持久化
func (s *Store) SignIn(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, code.ErrorInvalidCredentials.WithDetails("email is empty")
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	if d := s.config.SignInDelay; d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	user := s.buildUser(email)

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sessions.Save(ctx, user); err != nil {
		s.logger.Error("session persist failed", zap.String(logger.FieldEmail, email), zap.Error(err))
		return nil, errors.Wrap(code.ErrorSessionPersist.WithDetails(err.Error()), "sign in")
	}

	s.mu.Lock()
	s.user = user
	s.publish(domain.Event{Type: domain.EventSignedIn, User: user.Clone()})
	s.mu.Unlock()

	s.logger.Info("signed in", zap.String(logger.FieldUID, user.ID), zap.String(logger.FieldEmail, email))
	return user.Clone(), nil
}

// SignOut clears the session and removes the persisted slot. Signing out with no
// session succeeds without publishing anything.
// SignOut 清除会话并删除持久化槽位，未登录时为空操作
func (s *Store) SignOut(ctx context.Context) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sessions.Delete(ctx); err != nil {
		s.logger.Error("session delete failed", zap.Error(err))
		return errors.Wrap(code.ErrorSessionPersist.WithDetails(err.Error()), "sign out")
	}

	s.mu.Lock()
	prev := s.user
	s.user = nil
	if prev != nil {
		s.publish(domain.Event{Type: domain.EventSignedOut, User: prev.Clone()})
	}
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("signed out", zap.String(logger.FieldUID, prev.ID))
	}
	return nil
}

// CurrentUser 当前会话用户
func (s *Store) CurrentUser() (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	return s.user.Clone(), true
}

// Loading reports whether a sign-in or session restore is in flight.
func (s *Store) Loading() bool {
	return s.loading.Load() > 0
}

func (s *Store) buildUser(email string) *domain.User {
	name, _, _ := strings.Cut(email, "@")
	return &domain.User{
		ID:     uuid.NewSHA1(userNamespace, []byte(strings.ToLower(email))).String(),
		Email:  email,
		Name:   name,
		Avatar: s.config.AvatarBaseURL + "?seed=" + url.PathEscape(email),
	}
}

// AddNote creates a personal note and puts it first.
// AddNote 新建个人笔记并置于列表首位
func (s *Store) AddNote(in domain.NoteInput) (*domain.Note, error) {
	if domain.IsBlankText(in.Title, in.Content) {
		return nil, code.ErrorNoteEmpty
	}
	if err := validateMedia(in.Media); err != nil {
		return nil, err
	}

	now := s.now()
	note := &domain.Note{
		Title:     in.Title,
		Content:   in.Content,
		Media:     append([]domain.Media{}, in.Media...),
		Tags:      append([]string{}, in.Tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note.ID = s.newID()
	for s.idTaken(note.ID) {
		note.ID = s.newID()
	}
	s.notes = append([]*domain.Note{note}, s.notes...)
	s.publish(domain.Event{Type: domain.EventNoteCreated, Note: note.Clone()})

	return note.Clone(), nil
}

// UpdateNote merges patch over the personal note id and refreshes UpdatedAt, which
// always moves forward even if the clock does not. The note keeps its position.
// UpdateNote 合并补丁并刷新 UpdatedAt（保证严格递增），笔记位置不变
func (s *Store) UpdateNote(id string, patch domain.NotePatch) (*domain.Note, error) {
	if patch.Media != nil {
		if err := validateMedia(*patch.Media); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.personalIndex(id)
	if err != nil {
		return nil, err
	}
	prev := s.notes[idx]

	next := prev.Clone()
	patch.ApplyTo(next)
	if next.IsBlank() {
		return nil, code.ErrorNoteEmpty
	}

	next.UpdatedAt = nextUpdatedAt(prev.UpdatedAt, s.now())

	ev := domain.Event{Type: domain.EventNoteUpdated, Note: next.Clone(), Fields: patch.Fields()}
	if patch.Content != nil {
		ev.ContentPatch = diff.Patch(prev.Content, next.Content)
	}

	s.notes[idx] = next
	s.publish(ev)

	return next.Clone(), nil
}

// DeleteNote removes the personal note id.
// DeleteNote 删除个人笔记
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.personalIndex(id)
	if err != nil {
		return err
	}
	removed := s.notes[idx]
	s.notes = append(s.notes[:idx:idx], s.notes[idx+1:]...)
	s.publish(domain.Event{Type: domain.EventNoteDeleted, Note: removed})

	return nil
}

// Notes returns copies of the personal notes, newest first.
func (s *Store) Notes() []*domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.notes)
}

// SharedNotes returns copies of the notes shared with the user.
func (s *Store) SharedNotes() []*domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.shared)
}

// Note 按 ID 查找个人笔记
func (s *Store) Note(id string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n.Clone(), nil
		}
	}
	return nil, code.ErrorNoteNotFound.WithDetails("id=" + id)
}

// SharedNote 按 ID 查找共享笔记
func (s *Store) SharedNote(id string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.shared {
		if n.ID == id {
			return n.Clone(), nil
		}
	}
	return nil, code.ErrorSharedNoteNotFound.WithDetails("id=" + id)
}

// Stats 返回当前状态
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		SignedIn:      s.user != nil,
		Notes:         len(s.notes),
		SharedNotes:   len(s.shared),
		Subscribers:   len(s.subs),
		Seq:           s.seq,
		DroppedEvents: s.dropped.Load(),
	}
}

// personalIndex 定位个人笔记；共享笔记 ID 返回只读错误。调用方需持有锁
func (s *Store) personalIndex(id string) (int, error) {
	for i, n := range s.notes {
		if n.ID == id {
			return i, nil
		}
	}
	for _, n := range s.shared {
		if n.ID == id {
			return -1, code.ErrorNoteReadOnly.WithDetails("id=" + id)
		}
	}
	return -1, code.ErrorNoteNotFound.WithDetails("id=" + id)
}

func (s *Store) idTaken(id string) bool {
	for _, n := range s.notes {
		if n.ID == id {
			return true
		}
	}
	for _, n := range s.shared {
		if n.ID == id {
			return true
		}
	}
	return false
}

func validateMedia(media []domain.Media) error {
	for _, m := range media {
		if !m.Kind.Valid() {
			return code.ErrorMediaKindInvalid.WithDetails("kind=" + string(m.Kind))
		}
	}
	return nil
}

func cloneAll(in []*domain.Note) []*domain.Note {
	out := make([]*domain.Note, 0, len(in))
	for _, n := range in {
		out = append(out, n.Clone())
	}
	return out
}

// nextUpdatedAt returns now, or prev plus one millisecond when now does not advance
// prev at millisecond precision, so serialized timestamps stay strictly increasing.
func nextUpdatedAt(prev, now time.Time) time.Time {
	if now.UnixMilli() > prev.UnixMilli() {
		return now
	}
	return time.UnixMilli(prev.UnixMilli() + 1).In(prev.Location())
}
