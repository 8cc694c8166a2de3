package service

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
)

// NoteService 定义个人笔记业务服务接口，所有操作需要已登录会话
type NoteService interface {
	// List 列出个人笔记（新建在前），支持关键字与标签过滤
	List(ctx context.Context, params *dto.NoteListRequest) ([]*dto.NoteDTO, error)

	// Get 获取单条个人笔记
	Get(ctx context.Context, id string) (*dto.NoteDTO, error)

	// Create 新建笔记
	Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Update 局部更新笔记
	Update(ctx context.Context, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Delete 删除笔记
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	store  NoteStore
	logger *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(store NoteStore, lg *zap.Logger) NoteService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteService{store: store, logger: lg}
}

func (s *noteService) List(ctx context.Context, params *dto.NoteListRequest) ([]*dto.NoteDTO, error) {
	if _, err := requireUser(s.store); err != nil {
		return nil, err
	}
	if err := ValidateTagPattern(params.Tag); err != nil {
		return nil, err
	}
	return notesToDTO(filterNotes(s.store.Notes(), params.Keyword, params.Tag)), nil
}

func (s *noteService) Get(ctx context.Context, id string) (*dto.NoteDTO, error) {
	if _, err := requireUser(s.store); err != nil {
		return nil, err
	}
	n, err := s.store.Note(id)
	if err != nil {
		return nil, err
	}
	return noteToDTO(n), nil
}

func (s *noteService) Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	u, err := requireUser(s.store)
	if err != nil {
		return nil, err
	}
	n, err := s.store.AddNote(domain.NoteInput{
		Title:   params.Title,
		Content: params.Content,
		Media:   mediaFromDTO(params.Media),
		Tags:    params.Tags,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note created", zap.String(logger.FieldUID, u.ID), zap.String(logger.FieldNoteID, n.ID))
	return noteToDTO(n), nil
}

func (s *noteService) Update(ctx context.Context, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	u, err := requireUser(s.store)
	if err != nil {
		return nil, err
	}
	patch := domain.NotePatch{
		Title:   params.Title,
		Content: params.Content,
		Tags:    params.Tags,
	}
	if params.Media != nil {
		media := mediaFromDTO(*params.Media)
		patch.Media = &media
	}
	if patch.IsEmpty() {
		return nil, code.ErrorInvalidParams.WithDetails("nothing to update")
	}
	n, err := s.store.UpdateNote(params.ID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note updated", zap.String(logger.FieldUID, u.ID), zap.String(logger.FieldNoteID, n.ID), zap.Strings("fields", patch.Fields()))
	return noteToDTO(n), nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	u, err := requireUser(s.store)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNote(id); err != nil {
		return err
	}
	s.logger.Debug("note deleted", zap.String(logger.FieldUID, u.ID), zap.String(logger.FieldNoteID, id))
	return nil
}
