package dto

import "github.com/haierkeys/fast-note-pad/pkg/timex"

// EventDTO websocket 推送的存储事件
type EventDTO struct {
	Seq          uint64     `json:"seq"`
	Type         string     `json:"type"`
	At           timex.Time `json:"at"`
	User         *UserDTO   `json:"user,omitempty"`
	Note         *NoteDTO   `json:"note,omitempty"`
	Fields       []string   `json:"fields,omitempty"`
	ContentPatch string     `json:"contentPatch,omitempty"`
}

// HealthDTO 健康检查响应
type HealthDTO struct {
	Status      string  `json:"status"`
	SignedIn    bool    `json:"signedIn"`
	Notes       int     `json:"notes"`
	SharedNotes int     `json:"sharedNotes"`
	Uptime      string  `json:"uptime"`
	Goroutines  int     `json:"goroutines"`
	MemUsedPct  float64 `json:"memUsedPct"`
	Load1       float64 `json:"load1"`
	Database    string  `json:"database"`
}
