package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// EmployeeHandler 员工处理器
type EmployeeHandler struct {
	svc *service.EmployeeService
}

// NewEmployeeHandler 创建员工处理器
func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// List 员工列表
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"keyword":       c.Query("keyword"),
		"client_id":     c.Query("client_id"),
		"status":        c.Query("status"),
		"contract_type": c.Query("contract_type"),
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取员工列表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// Get 员工详情
// GET /api/v1/employees/:nik
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.svc.Get(c.Request.Context(), c.Param("nik"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "员工不存在")
			return
		}
		InternalError(c, "获取员工失败: "+err.Error())
		return
	}
	Success(c, emp)
}

// Create 创建员工
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	emp, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, emp)
}

// Update 更新员工
// PUT /api/v1/employees/:nik
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	emp, err := h.svc.Update(c.Request.Context(), c.Param("nik"), &req)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "员工不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, emp)
}

// Archive 归档员工
// POST /api/v1/employees/:nik/archive
func (h *EmployeeHandler) Archive(c *gin.Context) {
	emp, err := h.svc.Archive(c.Request.Context(), c.Param("nik"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "员工不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, emp)
}

// Delete 删除员工
// DELETE /api/v1/employees/:nik
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("nik")); err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "员工不存在")
			return
		}
		InternalError(c, "删除员工失败: "+err.Error())
		return
	}
	Success(c, gin.H{"message": "deleted"})
}

// Import 批量导入员工
// POST /api/v1/employees/import
func (h *EmployeeHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		BadRequest(c, "仅支持xlsx文件")
		return
	}

	result, err := h.svc.ImportExcel(c.Request.Context(), file)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}

// Export 导出员工列表
// GET /api/v1/employees/export
func (h *EmployeeHandler) Export(c *gin.Context) {
	filters := map[string]interface{}{
		"client_id": c.Query("client_id"),
		"status":    c.Query("status"),
	}

	f, fileName, err := h.svc.ExportExcel(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "导出失败: "+err.Error())
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		// 响应已开始写出，只能记录
		_ = c.Error(err)
	}
}
