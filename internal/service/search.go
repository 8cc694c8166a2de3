package service

import (
	"strings"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lower-cases s without language-specific rules; ß stays ß. Casers are stateful,
// so each call builds its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// MatchNote reports whether keyword occurs, ignoring case, in the title, the content,
// any tag or, for shared notes, the sharer's name. The keyword is used as typed:
// surrounding spaces take part in the match and only the empty keyword matches everything.
// MatchNote 关键字大小写不敏感匹配标题、内容、标签以及共享者，关键字不做裁剪
func MatchNote(n *domain.Note, keyword string) bool {
	if keyword == "" {
		return true
	}
	k := fold(keyword)
	if strings.Contains(fold(n.Title), k) || strings.Contains(fold(n.Content), k) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(fold(tag), k) {
			return true
		}
	}
	return n.IsShared() && strings.Contains(fold(n.SharedBy), k)
}

// MatchTag reports whether any tag matches the glob pattern. Tags are case-sensitive.
// MatchTag 标签 glob 匹配（区分大小写），空模式匹配所有笔记
func MatchTag(n *domain.Note, pattern string) bool {
	if pattern == "" {
		return true
	}
	for _, tag := range n.Tags {
		if ok, _ := doublestar.Match(pattern, tag); ok {
			return true
		}
	}
	return false
}

// ValidateTagPattern 校验标签 glob 模式
func ValidateTagPattern(pattern string) error {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return code.ErrorInvalidParams.WithDetails("tag pattern " + pattern)
	}
	return nil
}

// filterNotes 按关键字与标签模式过滤，保持原有顺序
func filterNotes(notes []*domain.Note, keyword, tag string) []*domain.Note {
	out := make([]*domain.Note, 0, len(notes))
	for _, n := range notes {
		if MatchNote(n, keyword) && MatchTag(n, tag) {
			out = append(out, n)
		}
	}
	return out
}
