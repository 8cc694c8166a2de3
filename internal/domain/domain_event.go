package domain

import "time"

// EventType 存储变更事件类型
type EventType string

const (
	EventSignedIn    EventType = "session.signed_in"
	EventSignedOut   EventType = "session.signed_out"
	EventNoteCreated EventType = "note.created"
	EventNoteUpdated EventType = "note.updated"
	EventNoteDeleted EventType = "note.deleted"
)

// Event is published by the store after every applied mutation.
// Seq increases by one per event, so a subscriber can detect gaps.
type Event struct {
	Seq  uint64
	Type EventType
	At   time.Time
	// User 会话事件携带
	User *User
	// Note 新建或更新后的笔记副本；删除事件携带被删除前的笔记
	Note *Note
	// Fields 更新事件中被修改的字段
	Fields []string
	// ContentPatch 更新事件中内容的 diff-match-patch 文本补丁
	ContentPatch string
}
