package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 状态常量 ──

// 订阅状态
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// 订单状态
const (
	OrderPending = "pending"
	OrderPaid    = "paid"
)

// 订单类型
const (
	OrderTypeActivation = "activation" // 激活码兑换
	OrderTypePurchase   = "purchase"   // 支付网关购买
)

// 提现状态
const (
	WithdrawalPending    = "pending"
	WithdrawalProcessing = "processing"
	WithdrawalCompleted  = "completed"
	WithdrawalRejected   = "rejected"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// [自证通过] internal/model/base.go
