package store

import (
	_ "embed"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/util"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedMedia struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}

type seedNote struct {
	ID             string      `yaml:"id"`
	Title          string      `yaml:"title"`
	Content        string      `yaml:"content"`
	Media          []seedMedia `yaml:"media"`
	Tags           []string    `yaml:"tags"`
	Age            string      `yaml:"age"`
	SharedBy       string      `yaml:"shared-by"`
	SharedByAvatar string      `yaml:"shared-by-avatar"`
}

type seedFile struct {
	Notes  []seedNote `yaml:"notes"`
	Shared []seedNote `yaml:"shared"`
}

// parseSeed decodes the demo fixture into personal and shared collections, newest first.
func parseSeed(data []byte, now time.Time, newID func() string) (notes, shared []*domain.Note, err error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, errors.Wrap(err, "decode seed")
	}
	conv := func(in seedNote, isShared bool) (*domain.Note, error) {
		age, err := util.ParseDuration(in.Age)
		if err != nil {
			return nil, errors.Wrapf(err, "seed %q age", in.Title)
		}
		ts := now.Add(-age)
		n := &domain.Note{
			ID:        in.ID,
			Title:     in.Title,
			Content:   in.Content,
			Tags:      append([]string{}, in.Tags...),
			Media:     []domain.Media{},
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		for _, m := range in.Media {
			kind := domain.MediaKind(m.Kind)
			if !kind.Valid() {
				return nil, errors.Errorf("seed %q: unknown media kind %q", in.Title, m.Kind)
			}
			n.Media = append(n.Media, domain.Media{Kind: kind, URL: m.URL})
		}
		if n.ID == "" {
			n.ID = newID()
		}
		if isShared {
			if in.SharedBy == "" {
				return nil, errors.Errorf("seed %q: shared note without shared-by", in.Title)
			}
			n.SharedBy = in.SharedBy
			n.SharedByAvatar = in.SharedByAvatar
		}
		return n, nil
	}
	for _, in := range f.Notes {
		n, err := conv(in, false)
		if err != nil {
			return nil, nil, err
		}
		notes = append(notes, n)
	}
	for _, in := range f.Shared {
		n, err := conv(in, true)
		if err != nil {
			return nil, nil, err
		}
		shared = append(shared, n)
	}
	return notes, shared, nil
}
