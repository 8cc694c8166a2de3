package domain

import "time"

// Upload 已存储的媒体文件记录
type Upload struct {
	ID        int64
	Kind      MediaKind
	Key       string
	URL       string
	Size      int64
	CreatedAt time.Time
}
