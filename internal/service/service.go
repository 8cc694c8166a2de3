// Package service 实现业务逻辑层
package service

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/code"
)

// SessionStore is the part of the store that owns the signed-in user.
// SessionStore 会话相关的存储接口
type SessionStore interface {
	SignIn(ctx context.Context, email string) (*domain.User, error)
	SignOut(ctx context.Context) error
	CurrentUser() (*domain.User, bool)
	Loading() bool
}

// NoteStore 笔记相关的存储接口
type NoteStore interface {
	CurrentUser() (*domain.User, bool)
	AddNote(in domain.NoteInput) (*domain.Note, error)
	UpdateNote(id string, patch domain.NotePatch) (*domain.Note, error)
	DeleteNote(id string) error
	Notes() []*domain.Note
	Note(id string) (*domain.Note, error)
	SharedNotes() []*domain.Note
	SharedNote(id string) (*domain.Note, error)
}

// requireUser 需要已登录会话
func requireUser(s interface{ CurrentUser() (*domain.User, bool) }) (*domain.User, error) {
	u, ok := s.CurrentUser()
	if !ok {
		return nil, code.ErrorNotSignedIn
	}
	return u, nil
}
