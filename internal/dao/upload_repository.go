package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// uploadRepository 实现 domain.UploadRepository 接口
type uploadRepository struct {
	dao *Dao
}

var _ domain.UploadRepository = (*uploadRepository)(nil)

// NewUploadRepository 创建 UploadRepository 实例
func NewUploadRepository(dao *Dao) domain.UploadRepository {
	return &uploadRepository{dao: dao}
}

func (r *uploadRepository) db(ctx context.Context) (*gorm.DB, error) {
	db, err := r.dao.UseWithOnceFunc(func(g *gorm.DB) error {
		return model.AutoMigrate(g, "Upload")
	}, "upload")
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

// toDomain 将数据库模型转换为领域模型
func (r *uploadRepository) toDomain(m *model.Upload) *domain.Upload {
	if m == nil {
		return nil
	}
	return &domain.Upload{
		ID:        m.ID,
		Kind:      domain.MediaKind(m.Kind),
		Key:       m.Key,
		URL:       m.URL,
		Size:      m.Size,
		CreatedAt: m.CreatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *uploadRepository) toModel(u *domain.Upload) *model.Upload {
	return &model.Upload{
		ID:        u.ID,
		Kind:      string(u.Kind),
		Key:       u.Key,
		URL:       u.URL,
		Size:      u.Size,
		CreatedAt: u.CreatedAt,
	}
}

// Create 新增上传记录
func (r *uploadRepository) Create(ctx context.Context, upload *domain.Upload) (*domain.Upload, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	m := r.toModel(upload)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := db.Create(m).Error; err != nil {
		return nil, errors.Wrap(err, "create upload")
	}
	return r.toDomain(m), nil
}

// ListBefore 列出早于 t 的上传记录
func (r *uploadRepository) ListBefore(ctx context.Context, t time.Time) ([]*domain.Upload, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	var list []*model.Upload
	if err := db.Where("created_at < ?", t).Order("id").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "list uploads")
	}
	out := make([]*domain.Upload, 0, len(list))
	for _, m := range list {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Delete 删除上传记录
func (r *uploadRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}
	return errors.Wrap(db.Delete(&model.Upload{}, id).Error, "delete upload")
}

// Count 上传记录总数
func (r *uploadRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.db(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&model.Upload{}).Count(&n).Error
	return n, errors.Wrap(err, "count uploads")
}
