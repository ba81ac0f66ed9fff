package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// ClientHandler 客户公司处理器
type ClientHandler struct {
	svc *service.ClientService
}

// NewClientHandler 创建客户公司处理器
func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// List 客户公司列表
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	result, err := h.svc.List(c.Request.Context(), page, pageSize, c.Query("keyword"))
	if err != nil {
		InternalError(c, "获取客户列表失败: "+err.Error())
		return
	}
	Success(c, result)
}

// Get 客户公司详情
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "客户不存在")
			return
		}
		InternalError(c, "获取客户失败: "+err.Error())
		return
	}
	Success(c, client)
}

// Create 创建客户公司
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	client, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, client)
}

// Update 更新客户公司
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	client, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "客户不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, client)
}

// Delete 删除客户公司
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "客户不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"message": "deleted"})
}
