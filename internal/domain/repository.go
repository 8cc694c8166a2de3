// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// SessionRepository 会话持久化槽位
type SessionRepository interface {
	// Load returns the persisted user, or nil when the slot is empty.
	Load(ctx context.Context) (*User, error)

	// Save 覆盖写入会话用户
	Save(ctx context.Context, user *User) error

	// Delete 删除会话，槽位为空时不报错
	Delete(ctx context.Context) error
}

// KVRepository 通用键值存储
type KVRepository interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	Set(ctx context.Context, key, value string) error

	Delete(ctx context.Context, key string) error
}

// UploadRepository 媒体上传记录仓储
type UploadRepository interface {
	Create(ctx context.Context, upload *Upload) (*Upload, error)

	// ListBefore 列出创建时间早于 t 的记录
	ListBefore(ctx context.Context, t time.Time) ([]*Upload, error)

	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)
}
