package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// SubmissionHandler 资料提交审核处理器（后台侧）
type SubmissionHandler struct {
	svc *service.SubmissionService
}

// NewSubmissionHandler 创建资料提交审核处理器
func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// List 提交列表
// GET /api/v1/data-submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"status":       c.Query("status"),
		"employee_nik": c.Query("nik"),
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取提交列表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// Get 提交详情
// GET /api/v1/data-submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "提交不存在")
			return
		}
		InternalError(c, "获取提交失败: "+err.Error())
		return
	}
	Success(c, sub)
}

// Diff 提交与当前档案的逐字段差异
// GET /api/v1/data-submissions/:id/diff
func (h *SubmissionHandler) Diff(c *gin.Context) {
	changes, err := h.svc.ReviewDiff(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "提交不存在")
			return
		}
		InternalError(c, "计算差异失败: "+err.Error())
		return
	}
	Success(c, gin.H{"changes": changes})
}

// Review 审核提交（通过/拒绝）
// POST /api/v1/data-submissions/:id/review
func (h *SubmissionHandler) Review(c *gin.Context) {
	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sub, err := h.svc.Review(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			NotFound(c, "提交不存在")
		case service.ErrAlreadyReviewed:
			Conflict(c, "提交已被审核")
		default:
			BadRequest(c, err.Error())
		}
		return
	}
	Success(c, sub)
}
