package service

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/dto"
)

// ShareService 共享笔记（只读）业务服务接口
type ShareService interface {
	// List 列出共享笔记，关键字同时匹配共享者
	List(ctx context.Context, params *dto.ShareListRequest) ([]*dto.NoteDTO, error)

	// Get 获取单条共享笔记
	Get(ctx context.Context, id string) (*dto.NoteDTO, error)
}

type shareService struct {
	store NoteStore
}

// NewShareService 创建 ShareService 实例
func NewShareService(store NoteStore) ShareService {
	return &shareService{store: store}
}

func (s *shareService) List(ctx context.Context, params *dto.ShareListRequest) ([]*dto.NoteDTO, error) {
	if _, err := requireUser(s.store); err != nil {
		return nil, err
	}
	return notesToDTO(filterNotes(s.store.SharedNotes(), params.Keyword, "")), nil
}

func (s *shareService) Get(ctx context.Context, id string) (*dto.NoteDTO, error) {
	if _, err := requireUser(s.store); err != nil {
		return nil, err
	}
	n, err := s.store.SharedNote(id)
	if err != nil {
		return nil, err
	}
	return noteToDTO(n), nil
}
