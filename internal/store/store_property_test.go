package store

import (
	"testing"

	"github.com/haierkeys/fast-note-pad/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// 任意次数新建后，数量等于调用次数且 ID 互不相同
func TestProperty_AddNoteCountAndUniqueIDs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("n adds yield n notes with unique ids", prop.ForAll(
		func(titles []string) bool {
			s, err := New(&memSessions{}, Config{SeedDemoData: true}, nil)
			if err != nil {
				return false
			}
			seen := map[string]bool{}
			for _, n := range s.Notes() {
				seen[n.ID] = true
			}
			for _, n := range s.SharedNotes() {
				seen[n.ID] = true
			}
			base := len(s.Notes())

			for _, title := range titles {
				n, err := s.AddNote(domain.NoteInput{Title: "t" + title})
				if err != nil || n.ID == "" || seen[n.ID] {
					return false
				}
				seen[n.ID] = true
			}
			return len(s.Notes()) == base+len(titles)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// 只更新标题时，其它字段不变且 UpdatedAt 严格递增
func TestProperty_UpdateTitleOnlyTouchesTitle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("update title changes only title and updatedAt", prop.ForAll(
		func(title, content, newTitle string, tags []string, frozen bool) bool {
			var opts []Option
			if frozen {
				opts = append(opts, WithClock(frozenClock()))
			}
			s, err := New(&memSessions{}, Config{}, nil, opts...)
			if err != nil {
				return false
			}
			n, err := s.AddNote(domain.NoteInput{Title: "a" + title, Content: content, Tags: tags})
			if err != nil {
				return false
			}
			x := "X" + newTitle
			u, err := s.UpdateNote(n.ID, domain.NotePatch{Title: &x})
			if err != nil {
				return false
			}
			if !u.UpdatedAt.After(n.UpdatedAt) {
				return false
			}
			want := n.Clone()
			want.Title = x
			want.UpdatedAt = u.UpdatedAt
			return notesEqual(want, u)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// 重复删除与删除一次的结果一致
func TestProperty_DeleteIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("delete twice equals delete once", prop.ForAll(
		func(count, pick int) bool {
			s, err := New(&memSessions{}, Config{}, nil)
			if err != nil {
				return false
			}
			var ids []string
			for i := 0; i < count; i++ {
				n, err := s.AddNote(domain.NoteInput{Title: "n"})
				if err != nil {
					return false
				}
				ids = append(ids, n.ID)
			}
			id := ids[pick%len(ids)]

			if err := s.DeleteNote(id); err != nil {
				return false
			}
			once := s.Notes()
			if err := s.DeleteNote(id); err == nil {
				return false
			}
			twice := s.Notes()
			if len(once) != len(twice) || len(once) != count-1 {
				return false
			}
			for i := range once {
				if !notesEqual(once[i], twice[i]) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

// 任意 add/update/delete 序列都不会修改共享笔记
func TestProperty_SharedNotesNeverMutated(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("shared collection is untouched by personal operations", prop.ForAll(
		func(ops []int) bool {
			s, err := New(&memSessions{}, Config{SeedDemoData: true}, nil)
			if err != nil {
				return false
			}
			before := s.SharedNotes()
			targets := []string{"s1", "s2", "missing"}
			for i, op := range ops {
				title := "t"
				switch op % 3 {
				case 0:
					_, _ = s.AddNote(domain.NoteInput{Title: title})
				case 1:
					_, _ = s.UpdateNote(targets[i%len(targets)], domain.NotePatch{Title: &title})
				case 2:
					_ = s.DeleteNote(targets[i%len(targets)])
				}
			}
			after := s.SharedNotes()
			if len(before) != len(after) {
				return false
			}
			for i := range before {
				if !notesEqual(before[i], after[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}

func notesEqual(a, b *domain.Note) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Content != b.Content ||
		!a.CreatedAt.Equal(b.CreatedAt) || !a.UpdatedAt.Equal(b.UpdatedAt) ||
		a.SharedBy != b.SharedBy || a.SharedByAvatar != b.SharedByAvatar ||
		len(a.Tags) != len(b.Tags) || len(a.Media) != len(b.Media) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	for i := range a.Media {
		if a.Media[i] != b.Media[i] {
			return false
		}
	}
	return true
}
