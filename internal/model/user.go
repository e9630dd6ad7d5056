package model

// User 用户表 — 对应 users
// InviteCode 为注册时铸造的专属邀请码；InvitedBy 记录注册时填写的邀请人邀请码
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Phone        string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"phone"`
	Nickname     string  `gorm:"type:varchar(50);not null;default:''"           json:"nickname"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	InviteCode   string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"invite_code"`
	InvitedBy    *string `gorm:"type:varchar(20);index"                         json:"invited_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
