package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// RequestHandler 文档请求处理器（后台侧）
type RequestHandler struct {
	svc *service.RequestService
}

// NewRequestHandler 创建文档请求处理器
func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// List 文档请求列表
// GET /api/v1/document-requests
func (h *RequestHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"status":        c.Query("status"),
		"employee_nik":  c.Query("nik"),
		"document_type": c.Query("document_type"),
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取请求列表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// Get 文档请求详情
// GET /api/v1/document-requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "请求不存在")
			return
		}
		InternalError(c, "获取请求失败: "+err.Error())
		return
	}
	Success(c, view)
}

// Respond 处理文档请求（通过/拒绝）
// POST /api/v1/document-requests/:id/respond
func (h *RequestHandler) Respond(c *gin.Context) {
	var input service.RespondRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.Respond(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			NotFound(c, "请求不存在")
		case service.ErrAlreadyResolved:
			Conflict(c, "请求已被处理")
		default:
			BadRequest(c, err.Error())
		}
		return
	}
	Success(c, view)
}
