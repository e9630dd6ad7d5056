package dto

// ── 钱包模块 DTO ──

// BalanceResponse 余额响应
type BalanceResponse struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"` // 分
}

// CommissionRecordResponse 佣金记录响应
type CommissionRecordResponse struct {
	RecordID         string  `json:"record_id"`
	InvitedUserID    string  `json:"invited_user_id"`
	PlanID           string  `json:"plan_id"`
	CommissionAmount int64   `json:"commission_amount"`
	CommissionRate   float64 `json:"commission_rate"`
	Level            int     `json:"level"`
	CreatedAt        string  `json:"created_at"`
}

// ReferralOverviewResponse 推广概览响应
type ReferralOverviewResponse struct {
	InviteCode   string `json:"invite_code"`
	InviteeCount int64  `json:"invitee_count"`
}

// CreateWithdrawalRequest 发起提现请求
type CreateWithdrawalRequest struct {
	Amount        int64  `json:"amount"         binding:"required,min=1"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=alipay wechat bank"`
	AccountInfo   string `json:"account_info"   binding:"required,max=255"`
}

// WithdrawalResponse 提现申请响应
type WithdrawalResponse struct {
	RequestID     string  `json:"request_id"`
	UserID        string  `json:"user_id"`
	Amount        int64   `json:"amount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	AccountInfo   string  `json:"account_info"`
	Evidence      *string `json:"evidence,omitempty"`
	ProcessedAt   *string `json:"processed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// WithdrawalListRequest 提现列表查询（管理员）
type WithdrawalListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending processing completed rejected"`
}

// ProcessWithdrawalRequest 审核提现请求（管理员）
type ProcessWithdrawalRequest struct {
	Status   string `json:"status"   binding:"required,oneof=completed rejected"`
	Evidence string `json:"evidence" binding:"omitempty,max=255"`
}

// [自证通过] internal/dto/wallet.go
