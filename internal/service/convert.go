package service

import (
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/pkg/convert"
	"github.com/haierkeys/fast-note-pad/pkg/timex"
)

// userToDTO 将领域用户转换为 DTO
func userToDTO(u *domain.User) (*dto.UserDTO, error) {
	if u == nil {
		return nil, nil
	}
	out := new(dto.UserDTO)
	if err := convert.Copy(out, u); err != nil {
		return nil, err
	}
	return out, nil
}

// noteToDTO 将领域笔记转换为 DTO
func noteToDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	media := make([]dto.MediaDTO, 0, len(n.Media))
	for _, m := range n.Media {
		media = append(media, dto.MediaDTO{Kind: string(m.Kind), URL: m.URL})
	}
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.NoteDTO{
		ID:             n.ID,
		Title:          n.Title,
		Content:        n.Content,
		Media:          media,
		Tags:           tags,
		CreatedAt:      timex.Time(n.CreatedAt),
		UpdatedAt:      timex.Time(n.UpdatedAt),
		SharedBy:       n.SharedBy,
		SharedByAvatar: n.SharedByAvatar,
	}
}

func notesToDTO(notes []*domain.Note) []*dto.NoteDTO {
	out := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteToDTO(n))
	}
	return out
}

func mediaFromDTO(in []dto.MediaDTO) []domain.Media {
	out := make([]domain.Media, 0, len(in))
	for _, m := range in {
		out = append(out, domain.Media{Kind: domain.MediaKind(m.Kind), URL: m.URL})
	}
	return out
}

// EventToDTO 将存储事件转换为推送负载
func EventToDTO(ev domain.Event) *dto.EventDTO {
	out := &dto.EventDTO{
		Seq:          ev.Seq,
		Type:         string(ev.Type),
		At:           timex.Time(ev.At),
		Note:         noteToDTO(ev.Note),
		Fields:       ev.Fields,
		ContentPatch: ev.ContentPatch,
	}
	if ev.User != nil {
		out.User, _ = userToDTO(ev.User)
	}
	return out
}
