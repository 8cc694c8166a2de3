package dao

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/pkg/errors"
)

// SessionKey 会话在键值表中的键
const SessionKey = "session.user"

// sessionRecord 会话槽位中保存的 JSON 结构
type sessionRecord struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// sessionRepository 实现 domain.SessionRepository，会话以 JSON 形式存放在键值表的单个槽位
type sessionRepository struct {
	kv  domain.KVRepository
	key string
}

var _ domain.SessionRepository = (*sessionRepository)(nil)

// NewSessionRepository 创建 SessionRepository 实例
func NewSessionRepository(kv domain.KVRepository) domain.SessionRepository {
	return &sessionRepository{kv: kv, key: SessionKey}
}

func (r *sessionRepository) toDomain(m *sessionRecord) *domain.User {
	return &domain.User{
		ID:     m.ID,
		Email:  m.Email,
		Name:   m.Name,
		Avatar: m.Avatar,
	}
}

func (r *sessionRepository) toModel(u *domain.User) *sessionRecord {
	return &sessionRecord{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}

// Load 读取会话，槽位为空返回 nil
func (r *sessionRepository) Load(ctx context.Context) (*domain.User, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil || !ok {
		return nil, err
	}
	var m sessionRecord
	if err := sonic.UnmarshalString(raw, &m); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if m.Email == "" {
		return nil, nil
	}
	return r.toDomain(&m), nil
}

// Save 保存会话
func (r *sessionRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return r.Delete(ctx)
	}
	raw, err := sonic.MarshalString(r.toModel(user))
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return r.kv.Set(ctx, r.key, raw)
}

// Delete 删除会话
func (r *sessionRepository) Delete(ctx context.Context) error {
	return r.kv.Delete(ctx, r.key)
}
