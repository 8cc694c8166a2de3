package logger

// 日志字段名，保证各处一致便于检索
const (
	FieldTraceID  = "traceId"
	FieldUID      = "uid"
	FieldEmail    = "email"
	FieldAction   = "action"
	FieldMethod   = "method"
	FieldDuration = "duration"

	// 笔记与事件
	FieldNoteID = "noteId"
	FieldEvent  = "event"

	// 媒体上传
	FieldKind    = "kind"
	FieldSize    = "size"
	FieldFileKey = "fileKey"
)
