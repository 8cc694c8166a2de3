package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNoteServiceRequiresSession(t *testing.T) {
	svc := NewNoteService(newStore(t, true), nil)
	ctx := context.Background()

	_, err := svc.List(ctx, &dto.NoteListRequest{})
	assert.True(t, errors.Is(err, code.ErrorNotSignedIn))
	_, err = svc.Create(ctx, &dto.NoteCreateRequest{Title: "x"})
	assert.True(t, errors.Is(err, code.ErrorNotSignedIn))
	assert.True(t, errors.Is(svc.Delete(ctx, "n1"), code.ErrorNotSignedIn))

	shares := NewShareService(newStore(t, true))
	_, err = shares.List(ctx, &dto.ShareListRequest{})
	assert.True(t, errors.Is(err, code.ErrorNotSignedIn))
}

func TestNoteServiceLifecycle(t *testing.T) {
	st := signedInStore(t, false)
	svc := NewNoteService(st, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.NoteCreateRequest{
		Title:   "Groceries",
		Content: "Milk",
		Tags:    []string{"home"},
		Media:   []dto.MediaDTO{{Kind: "image", URL: "/uploads/a.png"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, "image", created.Media[0].Kind)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Content)

	updated, err := svc.Update(ctx, &dto.NoteUpdateRequest{ID: created.ID, Content: strPtr("Milk, eggs")})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Title)
	assert.Equal(t, "Milk, eggs", updated.Content)
	assert.True(t, updated.UpdatedAt.Std().After(created.UpdatedAt.Std()))

	_, err = svc.Update(ctx, &dto.NoteUpdateRequest{ID: created.ID})
	assert.True(t, errors.Is(err, code.ErrorInvalidParams))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, code.ErrorNoteNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, created.ID), code.ErrorNoteNotFound))
}

func TestNoteServiceListFilters(t *testing.T) {
	st := signedInStore(t, false)
	svc := NewNoteService(st, nil)
	ctx := context.Background()

	for _, in := range []dto.NoteCreateRequest{
		{Title: "Standup", Tags: []string{"work/meeting"}},
		{Title: "Groceries", Content: "Milk", Tags: []string{"home"}},
		{Title: "Retro", Tags: []string{"work/retro"}},
	} {
		in := in
		_, err := svc.Create(ctx, &in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, &dto.NoteListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Retro", all[0].Title)

	work, err := svc.List(ctx, &dto.NoteListRequest{Tag: "work/*"})
	require.NoError(t, err)
	assert.Len(t, work, 2)

	milk, err := svc.List(ctx, &dto.NoteListRequest{Keyword: "MILK"})
	require.NoError(t, err)
	require.Len(t, milk, 1)
	assert.Equal(t, "Groceries", milk[0].Title)

	_, err = svc.List(ctx, &dto.NoteListRequest{Tag: "[bad"})
	assert.True(t, errors.Is(err, code.ErrorInvalidParams))
}

func TestNoteServiceRejectsSharedAndBlank(t *testing.T) {
	st := signedInStore(t, true)
	svc := NewNoteService(st, nil)
	ctx := context.Background()

	shared := st.SharedNotes()[0]
	_, err := svc.Update(ctx, &dto.NoteUpdateRequest{ID: shared.ID, Title: strPtr("mine")})
	assert.True(t, errors.Is(err, code.ErrorNoteReadOnly))
	assert.True(t, errors.Is(svc.Delete(ctx, shared.ID), code.ErrorNoteReadOnly))

	_, err = svc.Create(ctx, &dto.NoteCreateRequest{Title: "  ", Content: "\n"})
	assert.True(t, errors.Is(err, code.ErrorNoteEmpty))
}

func TestShareServiceSearchesSharer(t *testing.T) {
	st := signedInStore(t, true)
	shares := NewShareService(st)
	ctx := context.Background()

	all, err := shares.List(ctx, &dto.ShareListRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	sharer := all[0].SharedBy
	require.NotEmpty(t, sharer)
	bySharer, err := shares.List(ctx, &dto.ShareListRequest{Keyword: strings.ToUpper(sharer)})
	require.NoError(t, err)
	assert.NotEmpty(t, bySharer)
	for _, n := range bySharer {
		assert.NotEmpty(t, n.SharedBy)
	}

	one, err := shares.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Title, one.Title)

	_, err = shares.Get(ctx, "missing")
	assert.True(t, errors.Is(err, code.ErrorSharedNoteNotFound))
}
