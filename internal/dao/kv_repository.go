package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRepository 实现 domain.KVRepository 接口
type kvRepository struct {
	dao *Dao
}

var _ domain.KVRepository = (*kvRepository)(nil)

// NewKVRepository 创建 KVRepository 实例
func NewKVRepository(dao *Dao) domain.KVRepository {
	return &kvRepository{dao: dao}
}

func (r *kvRepository) db(ctx context.Context) (*gorm.DB, error) {
	db, err := r.dao.UseWithOnceFunc(func(g *gorm.DB) error {
		return model.AutoMigrate(g, "KV")
	}, "kv")
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

// Get 读取键值
func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := r.db(ctx)
	if err != nil {
		return "", false, err
	}
	var m model.KV
	err = db.Where(&model.KV{Key: key}).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "kv get %s", key)
	}
	return m.Value, true, nil
}

// Set 写入键值，已存在则覆盖
func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	m := &model.KV{Key: key, Value: value, UpdatedAt: time.Now()}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(m).Error
	return errors.Wrapf(err, "kv set %s", key)
}

// Delete 删除键值，不存在时不报错
func (r *kvRepository) Delete(ctx context.Context, key string) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	err = db.Where(&model.KV{Key: key}).Delete(&model.KV{}).Error
	return errors.Wrapf(err, "kv delete %s", key)
}
