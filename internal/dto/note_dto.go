package dto

import "github.com/haierkeys/fast-note-pad/pkg/timex"

// MediaDTO Media attachment
// MediaDTO 笔记附件
type MediaDTO struct {
	Kind string `json:"kind" form:"kind" binding:"required,mediakind"` // image / video
	URL  string `json:"url" form:"url" binding:"required"`
}

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Media          []MediaDTO `json:"media"`
	Tags           []string   `json:"tags"`
	CreatedAt      timex.Time `json:"createdAt"`
	UpdatedAt      timex.Time `json:"updatedAt"`
	SharedBy       string     `json:"sharedBy,omitempty"`
	SharedByAvatar string     `json:"sharedByAvatar,omitempty"`
}

// NoteListRequest 笔记列表查询参数
type NoteListRequest struct {
	Keyword string `json:"keyword" form:"keyword"`
	// Tag 标签 glob 过滤，例如 work/* 或 ?ome
	Tag string `json:"tag" form:"tag"`
}

// NoteGetRequest 按 ID 查询/删除笔记
type NoteGetRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// NoteCreateRequest Request parameters for creating a note
// 新建笔记请求参数，标题与内容不能同时为空
type NoteCreateRequest struct {
	Title   string     `json:"title" form:"title"`
	Content string     `json:"content" form:"content"`
	Media   []MediaDTO `json:"media" form:"media" binding:"omitempty,dive"`
	Tags    []string   `json:"tags" form:"tags"`
}

// NoteUpdateRequest Partial update; omitted fields are left unchanged
// 局部更新请求参数，未出现的字段保持不变
type NoteUpdateRequest struct {
	ID      string      `json:"id" form:"id" binding:"required"`
	Title   *string     `json:"title" form:"title"`
	Content *string     `json:"content" form:"content"`
	Media   *[]MediaDTO `json:"media" form:"media" binding:"omitempty,dive"`
	Tags    *[]string   `json:"tags" form:"tags"`
}

// ShareListRequest 共享笔记列表查询参数
type ShareListRequest struct {
	Keyword string `json:"keyword" form:"keyword"`
}

// MediaUploadRequest 媒体上传表单字段（文件本身通过 multipart 的 file 字段传递）
type MediaUploadRequest struct {
	Kind string `json:"kind" form:"kind" binding:"required,mediakind"`
}

// UploadDTO 已上传媒体
type UploadDTO struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}
