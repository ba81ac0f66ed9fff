package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// ContractHandler 合同文档处理器
type ContractHandler struct {
	svc *service.ContractService
}

// NewContractHandler 创建合同文档处理器
func NewContractHandler(svc *service.ContractService) *ContractHandler {
	return &ContractHandler{svc: svc}
}

// Upload 上传合同文档
// POST /api/v1/contract-documents （multipart：file + nik + type + title）
func (h *ContractHandler) Upload(c *gin.Context) {
	nik := c.PostForm("nik")
	docType := c.PostForm("type")
	title := c.PostForm("title")
	if nik == "" || docType == "" {
		BadRequest(c, "nik和type不能为空")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}
	defer file.Close()

	if title == "" {
		title = header.Filename
	}

	doc, err := h.svc.Upload(c.Request.Context(), GetUserID(c), nik, docType, title,
		file, header.Filename, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, doc)
}

// List 合同文档列表
// GET /api/v1/contract-documents
func (h *ContractHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"employee_nik": c.Query("nik"),
		"type":         c.Query("type"),
		"keyword":      c.Query("keyword"),
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取合同文档列表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// Get 合同文档详情
// GET /api/v1/contract-documents/:id
func (h *ContractHandler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "合同文档不存在")
			return
		}
		InternalError(c, "获取合同文档失败: "+err.Error())
		return
	}
	Success(c, doc)
}

// Delete 删除合同文档
// DELETE /api/v1/contract-documents/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "合同文档不存在")
			return
		}
		InternalError(c, "删除合同文档失败: "+err.Error())
		return
	}
	Success(c, gin.H{"message": "deleted"})
}
