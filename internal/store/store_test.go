package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSessions 内存会话槽位
type memSessions struct {
	mu      sync.Mutex
	user    *domain.User
	saveErr error
	delErr  error
	saves   int
}

func (m *memSessions) Load(ctx context.Context) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone(), nil
}

func (m *memSessions) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.user = user.Clone()
	return nil
}

func (m *memSessions) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	m.user = nil
	return nil
}

func (m *memSessions) stored() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

// frozenClock 返回固定时间，用于验证 UpdatedAt 严格递增
func frozenClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func newTestStore(t *testing.T, cfg Config, opts ...Option) (*Store, *memSessions) {
	t.Helper()
	sessions := &memSessions{}
	s, err := New(sessions, cfg, nil, opts...)
	require.NoError(t, err)
	return s, sessions
}

func TestNoteLifecycleScenario(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	n, err := s.AddNote(domain.NoteInput{Title: "Groceries", Content: "Milk"})
	require.NoError(t, err)
	assert.Len(t, s.Notes(), 1)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)

	content := "Milk, Eggs"
	u, err := s.UpdateNote(n.ID, domain.NotePatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", u.Title)
	assert.Equal(t, "Milk, Eggs", u.Content)
	assert.True(t, u.UpdatedAt.After(n.UpdatedAt))
	assert.Equal(t, n.CreatedAt, u.CreatedAt)

	require.NoError(t, s.DeleteNote(n.ID))
	assert.Len(t, s.Notes(), 0)
}

func TestAddNotePrependsAndValidates(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	first, err := s.AddNote(domain.NoteInput{Title: "first"})
	require.NoError(t, err)
	second, err := s.AddNote(domain.NoteInput{Content: "second"})
	require.NoError(t, err)

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)

	tests := []struct {
		name string
		in   domain.NoteInput
		want error
	}{
		{"blank", domain.NoteInput{Title: "  ", Content: "\n"}, code.ErrorNoteEmpty},
		{"bad media", domain.NoteInput{Title: "x", Media: []domain.Media{{Kind: "audio", URL: "u"}}}, code.ErrorMediaKindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddNote(tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, s.Notes(), 2)
		})
	}
}

func TestAddNoteCopiesInput(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	tags := []string{"a"}
	n, err := s.AddNote(domain.NoteInput{Title: "t", Tags: tags})
	require.NoError(t, err)

	tags[0] = "mutated"
	n.Tags[0] = "also mutated"

	got, err := s.Note(n.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestAddNoteRegeneratesCollidingID(t *testing.T) {
	ids := []string{"a", "a", "b"}
	i := 0
	s, _ := newTestStore(t, Config{}, WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first, err := s.AddNote(domain.NoteInput{Title: "x"})
	require.NoError(t, err)
	second, err := s.AddNote(domain.NoteInput{Title: "y"})
	require.NoError(t, err)
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestUpdateNoteKeepsPositionAndOtherFields(t *testing.T) {
	s, _ := newTestStore(t, Config{}, WithClock(frozenClock()))
	a, _ := s.AddNote(domain.NoteInput{Title: "a", Content: "ca", Tags: []string{"t1"}})
	b, _ := s.AddNote(domain.NoteInput{Title: "b", Content: "cb"})

	title := "X"
	u, err := s.UpdateNote(a.ID, domain.NotePatch{Title: &title})
	require.NoError(t, err)
	assert.True(t, u.UpdatedAt.After(a.UpdatedAt), "UpdatedAt must advance with a frozen clock")
	assert.Equal(t, a.UpdatedAt.UnixMilli()+1, u.UpdatedAt.UnixMilli())

	notes := s.Notes()
	assert.Equal(t, b.ID, notes[0].ID)
	assert.Equal(t, a.ID, notes[1].ID)

	want := a.Clone()
	want.Title = "X"
	want.UpdatedAt = u.UpdatedAt
	assert.Equal(t, want, notes[1])
}

func TestUpdateNoteErrors(t *testing.T) {
	s, _ := newTestStore(t, Config{SeedDemoData: true})
	n, _ := s.AddNote(domain.NoteInput{Title: "only title"})
	before := s.Notes()

	empty := ""
	badMedia := []domain.Media{{Kind: "gif"}}
	tests := []struct {
		name  string
		id    string
		patch domain.NotePatch
		want  error
	}{
		{"missing", "nope", domain.NotePatch{Title: &empty}, code.ErrorNoteNotFound},
		{"shared", "s1", domain.NotePatch{}, code.ErrorNoteReadOnly},
		{"blanked", n.ID, domain.NotePatch{Title: &empty}, code.ErrorNoteEmpty},
		{"bad media", n.ID, domain.NotePatch{Media: &badMedia}, code.ErrorMediaKindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.UpdateNote(tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, s.Notes())
		})
	}
}

func TestDeleteNoteTwice(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	a, _ := s.AddNote(domain.NoteInput{Title: "a"})
	_, _ = s.AddNote(domain.NoteInput{Title: "b"})

	require.NoError(t, s.DeleteNote(a.ID))
	after := s.Notes()

	err := s.DeleteNote(a.ID)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Equal(t, after, s.Notes())
}

func TestSharedNotesAreReadOnly(t *testing.T) {
	s, _ := newTestStore(t, Config{SeedDemoData: true})
	shared := s.SharedNotes()
	require.Len(t, shared, 2)

	title := "hijack"
	_, err := s.UpdateNote("s1", domain.NotePatch{Title: &title})
	assert.ErrorIs(t, err, code.ErrorNoteReadOnly)
	assert.ErrorIs(t, s.DeleteNote("s2"), code.ErrorNoteReadOnly)
	_, err = s.AddNote(domain.NoteInput{Title: "new"})
	require.NoError(t, err)

	assert.Equal(t, shared, s.SharedNotes())
}

func TestSeedDemoData(t *testing.T) {
	s, _ := newTestStore(t, Config{SeedDemoData: true})

	notes := s.Notes()
	require.Len(t, notes, 4)
	assert.Equal(t, "Project Ideas 2025", notes[0].Title)
	assert.Equal(t, "Grocery List", notes[1].Title)
	assert.Equal(t, []domain.Media{{Kind: domain.MediaImage, URL: "https://images.unsplash.com/photo-1542838132-92c53300491e?auto=format&fit=crop&q=80&w=1000"}}, notes[1].Media)
	for i := 1; i < len(notes); i++ {
		assert.True(t, notes[i-1].CreatedAt.After(notes[i].CreatedAt), "seed notes are newest first")
	}

	shared := s.SharedNotes()
	require.Len(t, shared, 2)
	assert.Equal(t, "s1", shared[0].ID)
	assert.Equal(t, "Sarah Chen", shared[0].SharedBy)
	assert.Equal(t, "Mike Ross", shared[1].SharedBy)
	assert.True(t, shared[1].IsShared())

	_, err := s.SharedNote("s2")
	assert.NoError(t, err)
	_, err = s.SharedNote(notes[0].ID)
	assert.ErrorIs(t, err, code.ErrorSharedNoteNotFound)
}

func TestSignInSignOutScenario(t *testing.T) {
	s, sessions := newTestStore(t, Config{})
	events, cancel := s.Subscribe(8)
	defer cancel()

	u, err := s.SignIn(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, DefaultAvatarBaseURL+"?seed=alice@example.com", u.Avatar)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, u, sessions.stored())

	cur, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u, cur)

	require.NoError(t, s.SignOut(context.Background()))
	_, ok = s.CurrentUser()
	assert.False(t, ok)
	assert.Nil(t, sessions.stored())

	// 再次退出为空操作
	require.NoError(t, s.SignOut(context.Background()))

	ev := <-events
	assert.Equal(t, domain.EventSignedIn, ev.Type)
	ev = <-events
	assert.Equal(t, domain.EventSignedOut, ev.Type)
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev.Type)
	default:
	}
}

func TestSignInUserIsDeterministic(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	a, err := s.SignIn(context.Background(), "Bob@Example.com")
	require.NoError(t, err)
	b, err := s.SignIn(context.Background(), "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Bob", a.Name)
}

func TestSignInRejectsEmptyEmail(t *testing.T) {
	s, sessions := newTestStore(t, Config{})
	for _, email := range []string{"", "   "} {
		_, err := s.SignIn(context.Background(), email)
		assert.ErrorIs(t, err, code.ErrorInvalidCredentials)
	}
	assert.Equal(t, 0, sessions.saves)
}

func TestSignInDelayHonoursContext(t *testing.T) {
	s, sessions := newTestStore(t, Config{SignInDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.SignIn(ctx, "alice@example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, sessions.stored())
	assert.False(t, s.Loading())
}

func TestSignInWaitsForDelay(t *testing.T) {
	s, _ := newTestStore(t, Config{SignInDelay: 30 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.SignIn(context.Background(), "a@b.c")
	}()

	assert.Eventually(t, s.Loading, time.Second, time.Millisecond)
	<-done
	assert.False(t, s.Loading())
	_, ok := s.CurrentUser()
	assert.True(t, ok)
}

func TestConcurrentSignInLastWriterWins(t *testing.T) {
	s, sessions := newTestStore(t, Config{SignInDelay: 5 * time.Millisecond})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.SignIn(context.Background(), fmt.Sprintf("user%d@example.com", i))
		}(i)
	}
	wg.Wait()

	cur, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, cur, sessions.stored(), "memory and slot agree on the last writer")
}

func TestSessionPersistFailureLeavesStateUnchanged(t *testing.T) {
	s, sessions := newTestStore(t, Config{})
	sessions.saveErr = errors.New("disk full")

	_, err := s.SignIn(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, code.ErrorSessionPersist)
	_, ok := s.CurrentUser()
	assert.False(t, ok)

	sessions.saveErr = nil
	_, err = s.SignIn(context.Background(), "alice@example.com")
	require.NoError(t, err)

	sessions.delErr = errors.New("locked")
	assert.ErrorIs(t, s.SignOut(context.Background()), code.ErrorSessionPersist)
	_, ok = s.CurrentUser()
	assert.True(t, ok)
}

func TestRestore(t *testing.T) {
	sessions := &memSessions{user: &domain.User{ID: "u1", Email: "carol@example.com", Name: "carol"}}
	s, err := New(sessions, Config{}, nil)
	require.NoError(t, err)

	_, ok := s.CurrentUser()
	assert.False(t, ok)

	require.NoError(t, s.Restore(context.Background()))
	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "carol", u.Name)
}

func TestEventsCarryDetails(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	events, cancel := s.Subscribe(8)
	defer cancel()

	n, _ := s.AddNote(domain.NoteInput{Title: "Groceries", Content: "Milk"})
	content := "Milk, Eggs"
	_, _ = s.UpdateNote(n.ID, domain.NotePatch{Content: &content})
	_ = s.DeleteNote(n.ID)

	created := <-events
	updated := <-events
	deleted := <-events

	assert.Equal(t, domain.EventNoteCreated, created.Type)
	assert.Equal(t, n.ID, created.Note.ID)

	assert.Equal(t, domain.EventNoteUpdated, updated.Type)
	assert.Equal(t, []string{"content"}, updated.Fields)
	assert.NotEmpty(t, updated.ContentPatch)
	assert.Equal(t, "Milk, Eggs", updated.Note.Content)

	assert.Equal(t, domain.EventNoteDeleted, deleted.Type)
	assert.Equal(t, n.ID, deleted.Note.ID)

	assert.Equal(t, created.Seq+1, updated.Seq)
	assert.Equal(t, updated.Seq+1, deleted.Seq)
}

func TestSlowSubscriberDropsWithoutBlocking(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	_, cancelSlow := s.Subscribe(1)
	defer cancelSlow()
	fast, cancelFast := s.Subscribe(16)
	defer cancelFast()

	for i := 0; i < 3; i++ {
		_, err := s.AddNote(domain.NoteInput{Title: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(2), s.Stats().DroppedEvents)
	assert.Len(t, fast, 3)
}

func TestSubscribeCancel(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ch, cancel := s.Subscribe(0)
	assert.Equal(t, 1, s.Stats().Subscribers)

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, s.Stats().Subscribers)

	_, err := s.AddNote(domain.NoteInput{Title: "after cancel"})
	assert.NoError(t, err)
}

func TestConcurrentMutations(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	events, cancel := s.Subscribe(1024)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := s.AddNote(domain.NoteInput{Title: fmt.Sprint(i)})
			if err != nil {
				return
			}
			title := fmt.Sprint("u", i)
			_, _ = s.UpdateNote(n.ID, domain.NotePatch{Title: &title})
			_ = s.Notes()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Notes(), 50)

	var last uint64
	for len(events) > 0 {
		ev := <-events
		assert.Equal(t, last+1, ev.Seq)
		last = ev.Seq
	}
	assert.Equal(t, uint64(100), last)
}

// 同一毫秒内的更新在毫秒精度上仍严格递增
func TestNextUpdatedAtMillisecondPrecision(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, int(500*time.Microsecond), time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"same instant", base, base.UnixMilli() + 1},
		{"same millisecond", base.Add(300 * time.Microsecond), base.UnixMilli() + 1},
		{"clock behind", base.Add(-time.Second), base.UnixMilli() + 1},
		{"next millisecond", base.Add(time.Millisecond), base.Add(time.Millisecond).UnixMilli()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextUpdatedAt(base, tt.now)
			assert.Equal(t, tt.want, got.UnixMilli())
			assert.True(t, got.After(base))
		})
	}
}
