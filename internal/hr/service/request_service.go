package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/sse"
	"github.com/swaprodev/hallo/internal/shared/notify"
	"github.com/swaprodev/hallo/internal/shared/storage"
)

// 请求处理错误
var (
	// ErrAlreadyResolved 请求已被处理（含并发场景下被另一PIC抢先处理）
	ErrAlreadyResolved = errors.New("request already resolved")
	// ErrNotApproved 请求未通过，不允许下载
	ErrNotApproved = errors.New("request not approved")
	// ErrAccessExpired 访问窗口已过
	ErrAccessExpired = errors.New("access window expired")
)

// RequestService 文档请求服务
// 请求生命周期：pending → approved（限时访问）/ rejected（必填原因）
// expired 不落库，读取时推导
type RequestService struct {
	reqRepo      *repository.RequestRepository
	empRepo      *repository.EmployeeRepository
	payslipRepo  *repository.PayslipRepository
	contractRepo *repository.ContractRepository
	store        *storage.Store
	notifier     *notify.Client
	logger       *zap.Logger
}

// NewRequestService 创建文档请求服务
func NewRequestService(
	reqRepo *repository.RequestRepository,
	empRepo *repository.EmployeeRepository,
	payslipRepo *repository.PayslipRepository,
	contractRepo *repository.ContractRepository,
	store *storage.Store,
	notifier *notify.Client,
	logger *zap.Logger,
) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		reqRepo:      reqRepo,
		empRepo:      empRepo,
		payslipRepo:  payslipRepo,
		contractRepo: contractRepo,
		store:        store,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateRequestRequest 发起文档请求
// payslip 类型的 document_id 为期间（YYYY-MM），
// contract/warning_letter 类型的 document_id 为合同文档ID
type CreateRequestRequest struct {
	NIK          string `json:"nik" binding:"required"`
	DocumentType string `json:"document_type" binding:"required"`
	DocumentID   string `json:"document_id" binding:"required"`
}

// RespondRequestInput 处理文档请求
type RespondRequestInput struct {
	Action          string `json:"action" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	Reason          string `json:"reason"`
}

// RequestView 带推导状态的请求视图
type RequestView struct {
	entity.DocumentRequest
	EffectiveStatus string `json:"effective_status"`
}

// RequestListResult 请求列表结果
type RequestListResult struct {
	Items      []RequestView `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// Create 员工发起文档请求
func (s *RequestService) Create(ctx context.Context, req *CreateRequestRequest) (*entity.DocumentRequest, error) {
	emp, err := s.empRepo.FindByNIK(ctx, req.NIK)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("员工不存在")
		}
		return nil, err
	}

	docName, err := s.resolveDocumentName(ctx, req.NIK, req.DocumentType, req.DocumentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &entity.DocumentRequest{
		ID:           uuid.New().String(),
		EmployeeNIK:  emp.NIK,
		DocumentType: req.DocumentType,
		DocumentID:   req.DocumentID,
		DocumentName: docName,
		Status:       entity.RequestStatusPending,
		RequestedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.reqRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	sse.PublishRequestUpdate(request.ID, request.EmployeeNIK, "created")
	s.notifyAsync(notify.Event{
		Type:        notify.EventRequestCreated,
		EmployeeNIK: request.EmployeeNIK,
		RefID:       request.ID,
		Title:       docName,
	})

	return request, nil
}

// resolveDocumentName 校验目标文档存在并返回展示名称
func (s *RequestService) resolveDocumentName(ctx context.Context, nik, docType, docID string) (string, error) {
	switch docType {
	case entity.RequestDocTypePayslip:
		p, err := s.payslipRepo.FindByNIKAndPeriod(ctx, nik, docID)
		if err != nil {
			if err == repository.ErrNotFound {
				return "", fmt.Errorf("期间 %s 的工资单不存在", docID)
			}
			return "", err
		}
		return fmt.Sprintf("Slip Gaji %s", p.Period), nil

	case entity.RequestDocTypeContract, entity.RequestDocTypeWarningLetter:
		doc, err := s.contractRepo.FindByID(ctx, docID)
		if err != nil {
			if err == repository.ErrNotFound {
				return "", fmt.Errorf("合同文档不存在")
			}
			return "", err
		}
		if doc.EmployeeNIK != nik {
			return "", fmt.Errorf("合同文档不属于该员工")
		}
		return doc.Title, nil

	default:
		return "", fmt.Errorf("不支持的文档类型: %s", docType)
	}
}

// Get 获取请求详情
func (s *RequestService) Get(ctx context.Context, id string) (*RequestView, error) {
	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RequestView{DocumentRequest: *req, EffectiveStatus: req.DisplayStatus(time.Now())}, nil
}

// Respond 处理请求（通过或拒绝）
// 通过必须给出正的访问时长；拒绝必须给出原因。
// 状态转移是条件更新，请求已被处理时返回 ErrAlreadyResolved，不产生部分变更
func (s *RequestService) Respond(ctx context.Context, id, picID string, input *RespondRequestInput) (*RequestView, error) {
	if _, err := s.reqRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	switch input.Action {
	case "approve":
		if input.DurationMinutes < 1 {
			return nil, fmt.Errorf("访问时长必须大于0分钟")
		}
		expiresAt := time.Now().Add(time.Duration(input.DurationMinutes) * time.Minute)
		if err := s.reqRepo.Approve(ctx, id, picID, expiresAt); err != nil {
			if err == repository.ErrStateConflict {
				return nil, ErrAlreadyResolved
			}
			return nil, fmt.Errorf("approve request: %w", err)
		}

	case "reject":
		if input.Reason == "" {
			return nil, fmt.Errorf("拒绝原因不能为空")
		}
		if err := s.reqRepo.Reject(ctx, id, picID, input.Reason); err != nil {
			if err == repository.ErrStateConflict {
				return nil, ErrAlreadyResolved
			}
			return nil, fmt.Errorf("reject request: %w", err)
		}

	default:
		return nil, fmt.Errorf("不支持的操作: %s", input.Action)
	}

	req, err := s.reqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sse.PublishRequestUpdate(req.ID, req.EmployeeNIK, req.Status)
	eventType := notify.EventRequestApproved
	if req.Status == entity.RequestStatusRejected {
		eventType = notify.EventRequestRejected
	}
	s.notifyAsync(notify.Event{
		Type:        eventType,
		EmployeeNIK: req.EmployeeNIK,
		RefID:       req.ID,
		Title:       req.DocumentName,
		Status:      req.Status,
		Detail:      req.RejectionReason,
	})

	return &RequestView{DocumentRequest: *req, EffectiveStatus: req.DisplayStatus(time.Now())}, nil
}

// ListByNIK 获取员工自己的请求列表
func (s *RequestService) ListByNIK(ctx context.Context, nik string) ([]RequestView, error) {
	reqs, err := s.reqRepo.ListByNIK(ctx, nik)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	now := time.Now()
	views := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, RequestView{DocumentRequest: r, EffectiveStatus: r.DisplayStatus(now)})
	}
	return views, nil
}

// List 获取请求列表（后台）
// status 过滤按推导状态进行：expired/approved 先按存储状态 approved 查询，
// 再在结果上按访问截止时间二次过滤；total 为存储状态口径
func (s *RequestService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*RequestListResult, error) {
	effective, _ := filters["status"].(string)
	if effective == entity.RequestStatusExpired {
		filters["status"] = entity.RequestStatusApproved
	}

	reqs, total, err := s.reqRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	now := time.Now()
	views := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		v := RequestView{DocumentRequest: r, EffectiveStatus: r.DisplayStatus(now)}
		if effective == entity.RequestStatusExpired && v.EffectiveStatus != entity.RequestStatusExpired {
			continue
		}
		if effective == entity.RequestStatusApproved && v.EffectiveStatus != entity.RequestStatusApproved {
			continue
		}
		views = append(views, v)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &RequestListResult{
		Items:      views,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// FileURL 为已授权的请求签发限时下载链接
// 链接有效期与访问窗口剩余时间一致
func (s *RequestService) FileURL(ctx context.Context, requestID, nik string) (string, error) {
	req, err := s.reqRepo.FindByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if req.EmployeeNIK != nik {
		return "", repository.ErrNotFound
	}

	now := time.Now()
	if req.Status == entity.RequestStatusApproved && !req.AccessGranted(now) {
		return "", ErrAccessExpired
	}
	if !req.AccessGranted(now) {
		return "", ErrNotApproved
	}

	if s.store == nil {
		return "", fmt.Errorf("文件存储未配置")
	}

	var filePath, fileName string
	switch req.DocumentType {
	case entity.RequestDocTypePayslip:
		p, err := s.payslipRepo.FindByNIKAndPeriod(ctx, nik, req.DocumentID)
		if err != nil {
			return "", err
		}
		filePath, fileName = p.FilePath, p.FileName
	default:
		doc, err := s.contractRepo.FindByID(ctx, req.DocumentID)
		if err != nil {
			return "", err
		}
		filePath, fileName = doc.FilePath, doc.FileName
	}

	return s.store.PresignedGet(ctx, filePath, fileName, req.AccessExpiresAt.Sub(now))
}

// notifyAsync 异步推送webhook事件，失败只记日志
func (s *RequestService) notifyAsync(event notify.Event) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, event); err != nil {
			s.logger.Warn("webhook notify failed",
				zap.String("event", event.Type),
				zap.String("ref_id", event.RefID),
				zap.Error(err))
		}
	}()
}
