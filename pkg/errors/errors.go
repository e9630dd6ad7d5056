package errors

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientBalance 余额不足：条件扣减未命中任何行
// Repository 层返回，Service 层据此拒绝提现
var ErrInsufficientBalance = errors.New("余额不足")

// IsDuplicateKey 判断是否为唯一约束冲突
// 依赖 gorm.Config.TranslateError 将驱动错误统一转换为 gorm.ErrDuplicatedKey
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
