// Package domain 定义领域模型和接口
package domain

import (
	"strings"
	"time"
)

// MediaKind 附件类型
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Valid 判断是否为已知的附件类型
func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

// Media 笔记附件
type Media struct {
	Kind MediaKind
	URL  string
}

// Note 笔记领域模型
// SharedBy 非空的笔记来自其他用户，对当前用户只读
type Note struct {
	ID             string
	Title          string
	Content        string
	Media          []Media
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SharedBy       string
	SharedByAvatar string
}

// IsShared 判断笔记是否为他人共享
func (n *Note) IsShared() bool {
	return n.SharedBy != ""
}

// IsBlank reports whether both title and content are empty after trimming.
// IsBlank 标题与内容去除空白后均为空
func (n *Note) IsBlank() bool {
	return IsBlankText(n.Title, n.Content)
}

// Clone 深拷贝，调用方修改副本不会影响存储中的笔记
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	if n.Media != nil {
		c.Media = append([]Media(nil), n.Media...)
	}
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	return &c
}

// IsBlankText 判断标题与内容是否均为空白
func IsBlankText(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}

// NoteInput 新建笔记的输入
type NoteInput struct {
	Title   string
	Content string
	Media   []Media
	Tags    []string
}

// NotePatch is a partial update; nil fields are left unchanged.
// NotePatch 局部更新，nil 字段保持不变
type NotePatch struct {
	Title   *string
	Content *string
	Media   *[]Media
	Tags    *[]string
}

// IsEmpty 判断补丁是否不含任何字段
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Media == nil && p.Tags == nil
}

// Fields 返回补丁中包含的字段名
func (p NotePatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Content != nil {
		fields = append(fields, "content")
	}
	if p.Media != nil {
		fields = append(fields, "media")
	}
	if p.Tags != nil {
		fields = append(fields, "tags")
	}
	return fields
}

// ApplyTo shallow-merges the patch over n. Slices are copied.
// ApplyTo 将补丁浅合并到 n 上
func (p NotePatch) ApplyTo(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Media != nil {
		n.Media = append([]Media(nil), (*p.Media)...)
	}
	if p.Tags != nil {
		n.Tags = append([]string(nil), (*p.Tags)...)
	}
}
