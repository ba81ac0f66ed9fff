package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// PayslipHandler 工资单处理器
type PayslipHandler struct {
	svc *service.PayslipService
}

// NewPayslipHandler 创建工资单处理器
func NewPayslipHandler(svc *service.PayslipService) *PayslipHandler {
	return &PayslipHandler{svc: svc}
}

// Upload 上传工资单
// POST /api/v1/payslips （multipart：file + nik + period）
func (h *PayslipHandler) Upload(c *gin.Context) {
	nik := c.PostForm("nik")
	period := c.PostForm("period")
	if nik == "" || period == "" {
		BadRequest(c, "nik和period不能为空")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}
	defer file.Close()

	p, err := h.svc.Upload(c.Request.Context(), GetUserID(c), nik, period,
		file, header.Filename, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, p)
}

// List 工资单列表
// GET /api/v1/payslips
func (h *PayslipHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"employee_nik": c.Query("nik"),
		"period":       c.Query("period"),
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取工资单列表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// Get 工资单详情
// GET /api/v1/payslips/:id
func (h *PayslipHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "工资单不存在")
			return
		}
		InternalError(c, "获取工资单失败: "+err.Error())
		return
	}
	Success(c, p)
}

// Delete 删除工资单
// DELETE /api/v1/payslips/:id
func (h *PayslipHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "工资单不存在")
			return
		}
		InternalError(c, "删除工资单失败: "+err.Error())
		return
	}
	Success(c, gin.H{"message": "deleted"})
}
