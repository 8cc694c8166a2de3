package model

import (
	"time"

	"gorm.io/gorm"
)

// KV 键值表，保存会话槽位等少量持久化状态
type KV struct {
	Key       string    `gorm:"column:key;primaryKey;size:191" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
}

func (KV) TableName() string {
	return "kv"
}

// Upload 媒体上传记录
type Upload struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Kind      string    `gorm:"column:kind;size:16;not null" json:"kind"`
	Key       string    `gorm:"column:key;size:512;not null" json:"key"`
	URL       string    `gorm:"column:url;size:1024;not null" json:"url"`
	Size      int64     `gorm:"column:size" json:"size"`
	CreatedAt time.Time `gorm:"column:created_at;index;autoCreateTime:false" json:"createdAt"`
}

func (Upload) TableName() string {
	return "upload"
}

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "KV":
		return db.AutoMigrate(KV{})
	case "Upload":
		return db.AutoMigrate(Upload{})
	}
	return nil
}
