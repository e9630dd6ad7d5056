package repository

import (
	"context"

	"gorm.io/gorm"

	"chatpass/backend/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (*model.User, error)
	CountByInviter(ctx context.Context, inviteCode string) (int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByInviteCode 根据邀请码查询用户（解析推广链上游）
func (r *userRepo) GetByInviteCode(ctx context.Context, inviteCode string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("invite_code = ?", inviteCode).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountByInviter 统计使用某邀请码注册的用户数
func (r *userRepo) CountByInviter(ctx context.Context, inviteCode string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("invited_by = ?", inviteCode).
		Count(&total).Error
	return total, err
}

// [自证通过] internal/repository/user_repo.go
