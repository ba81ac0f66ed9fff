package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
)

// PublicHandler 员工自助端处理器
// 无登录态，全部以NIK为身份凭据，只暴露员工自己的数据
type PublicHandler struct {
	empSvc *service.EmployeeService
	reqSvc *service.RequestService
	subSvc *service.SubmissionService
}

// NewPublicHandler 创建员工自助端处理器
func NewPublicHandler(empSvc *service.EmployeeService, reqSvc *service.RequestService, subSvc *service.SubmissionService) *PublicHandler {
	return &PublicHandler{empSvc: empSvc, reqSvc: reqSvc, subSvc: subSvc}
}

// GetEmployee 员工查看自己的档案
// GET /api/v1/public/employees/:nik
func (h *PublicHandler) GetEmployee(c *gin.Context) {
	emp, err := h.empSvc.Get(c.Request.Context(), c.Param("nik"))
	if err != nil {
		if err == repository.ErrNotFound {
			NotFound(c, "员工不存在")
			return
		}
		InternalError(c, "获取档案失败: "+err.Error())
		return
	}
	Success(c, emp)
}

// CreateRequest 员工发起文档请求
// POST /api/v1/public/document-requests
func (h *PublicHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	request, err := h.reqSvc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, request)
}

// ListRequests 员工查看自己的请求
// GET /api/v1/public/document-requests?nik=
func (h *PublicHandler) ListRequests(c *gin.Context) {
	nik := c.Query("nik")
	if nik == "" {
		BadRequest(c, "nik不能为空")
		return
	}

	views, err := h.reqSvc.ListByNIK(c.Request.Context(), nik)
	if err != nil {
		InternalError(c, "获取请求列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": views})
}

// RequestFile 通过已授权的请求获取限时下载链接
// GET /api/v1/public/document-requests/:id/file?nik=
func (h *PublicHandler) RequestFile(c *gin.Context) {
	nik := c.Query("nik")
	if nik == "" {
		BadRequest(c, "nik不能为空")
		return
	}

	url, err := h.reqSvc.FileURL(c.Request.Context(), c.Param("id"), nik)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			NotFound(c, "请求不存在")
		case service.ErrNotApproved:
			Forbidden(c, "请求尚未通过")
		case service.ErrAccessExpired:
			Forbidden(c, "访问窗口已过期")
		default:
			InternalError(c, "获取下载链接失败: "+err.Error())
		}
		return
	}
	Success(c, gin.H{"url": url})
}

// CreateSubmission 员工提交资料变更
// POST /api/v1/public/submissions
func (h *PublicHandler) CreateSubmission(c *gin.Context) {
	var input service.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sub, err := h.subSvc.Submit(c.Request.Context(), &input)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, sub)
}

// ListSubmissions 员工查看自己的提交历史
// GET /api/v1/public/submissions?nik=
func (h *PublicHandler) ListSubmissions(c *gin.Context) {
	nik := c.Query("nik")
	if nik == "" {
		BadRequest(c, "nik不能为空")
		return
	}

	subs, err := h.subSvc.ListByNIK(c.Request.Context(), nik)
	if err != nil {
		InternalError(c, "获取提交列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": subs})
}
