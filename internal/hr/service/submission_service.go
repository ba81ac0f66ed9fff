package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swaprodev/hallo/internal/hr/diff"
	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/sse"
	"github.com/swaprodev/hallo/internal/shared/notify"
)

// ErrAlreadyReviewed 提交已被审核（含并发场景下被另一审核人抢先处理）
var ErrAlreadyReviewed = errors.New("submission already reviewed")

// SubmissionService 资料提交审核服务
// 员工提交完整档案快照，审核时与当前档案做逐字段差异，
// 按路径逐条采纳，仅被采纳的字段合并进档案
type SubmissionService struct {
	subRepo  *repository.SubmissionRepository
	empRepo  *repository.EmployeeRepository
	notifier *notify.Client
	logger   *zap.Logger
}

// NewSubmissionService 创建资料提交审核服务
func NewSubmissionService(subRepo *repository.SubmissionRepository, empRepo *repository.EmployeeRepository, notifier *notify.Client, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		subRepo:  subRepo,
		empRepo:  empRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// SubmitInput 员工提交资料变更
type SubmitInput struct {
	NIK      string                 `json:"nik" binding:"required"`
	Proposed map[string]interface{} `json:"proposed" binding:"required"`
}

// ReviewInput 审核提交
// approve 时 accepted_paths 为被采纳的差异路径，可为空（全部驳回但留痕通过）
type ReviewInput struct {
	Action        string   `json:"action" binding:"required"`
	AcceptedPaths []string `json:"accepted_paths"`
	Notes         string   `json:"notes"`
}

// FieldChange 差异视图中的单个字段变更
type FieldChange struct {
	Path string      `json:"path"`
	Old  interface{} `json:"old"`
	New  interface{} `json:"new"`
}

// SubmissionListResult 提交列表结果
type SubmissionListResult struct {
	Items      []entity.EmployeeDataSubmission `json:"items"`
	Total      int64                           `json:"total"`
	Page       int                             `json:"page"`
	PageSize   int                             `json:"page_size"`
	TotalPages int                             `json:"total_pages"`
}

// Submit 员工提交资料变更
func (s *SubmissionService) Submit(ctx context.Context, input *SubmitInput) (*entity.EmployeeDataSubmission, error) {
	if _, err := s.empRepo.FindByNIK(ctx, input.NIK); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("员工不存在")
		}
		return nil, err
	}
	if len(input.Proposed) == 0 {
		return nil, fmt.Errorf("提交内容不能为空")
	}

	now := time.Now()
	sub := &entity.EmployeeDataSubmission{
		ID:          uuid.New().String(),
		EmployeeNIK: input.NIK,
		Proposed:    input.Proposed,
		Status:      entity.SubmissionStatusPending,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	sse.PublishSubmissionUpdate(sub.ID, sub.EmployeeNIK, "created")
	s.notifyAsync(notify.Event{
		Type:        notify.EventSubmissionCreated,
		EmployeeNIK: sub.EmployeeNIK,
		RefID:       sub.ID,
		Title:       "Pengajuan perubahan data",
	})

	return sub, nil
}

// Get 获取提交详情
func (s *SubmissionService) Get(ctx context.Context, id string) (*entity.EmployeeDataSubmission, error) {
	return s.subRepo.FindByID(ctx, id)
}

// ReviewDiff 计算提交与当前档案的逐字段差异
// 空差异表示提交与档案一致，无需处理
func (s *SubmissionService) ReviewDiff(ctx context.Context, id string) ([]FieldChange, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes, err := s.diffAgainstCurrent(ctx, sub)
	if err != nil {
		return nil, err
	}

	fields := make([]FieldChange, 0, len(changes))
	for _, path := range diff.Paths(changes) {
		c := changes[path]
		fields = append(fields, FieldChange{Path: path, Old: c.Old, New: c.New})
	}
	return fields, nil
}

// diffAgainstCurrent 以当前档案为基准计算差异
// 差异总是对着最新档案算：部分合并后再次审核，已合并的字段自然消失
func (s *SubmissionService) diffAgainstCurrent(ctx context.Context, sub *entity.EmployeeDataSubmission) (map[string]diff.Change, error) {
	emp, err := s.empRepo.FindByNIK(ctx, sub.EmployeeNIK)
	if err != nil {
		return nil, err
	}
	return diff.Diff(diff.EmployeeSchema, emp.Snapshot(), sub.Proposed), nil
}

// Review 审核提交
// approve：重算差异，按采纳路径构造部分更新，与状态转移同事务写入档案；
// reject：必填审核意见。提交已被处理时返回 ErrAlreadyReviewed
func (s *SubmissionService) Review(ctx context.Context, id, reviewerID string, input *ReviewInput) (*entity.EmployeeDataSubmission, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch input.Action {
	case "approve":
		changes, err := s.diffAgainstCurrent(ctx, sub)
		if err != nil {
			return nil, err
		}
		partial := diff.BuildPartial(changes, input.AcceptedPaths)
		fields := s.partialToColumns(sub, partial)

		if err := s.subRepo.ApproveAndApply(ctx, id, reviewerID, input.Notes, sub.EmployeeNIK, fields); err != nil {
			if err == repository.ErrStateConflict {
				return nil, ErrAlreadyReviewed
			}
			return nil, fmt.Errorf("approve submission: %w", err)
		}

	case "reject":
		if input.Notes == "" {
			return nil, fmt.Errorf("审核意见不能为空")
		}
		if err := s.subRepo.Reject(ctx, id, reviewerID, input.Notes); err != nil {
			if err == repository.ErrStateConflict {
				return nil, ErrAlreadyReviewed
			}
			return nil, fmt.Errorf("reject submission: %w", err)
		}

	default:
		return nil, fmt.Errorf("不支持的操作: %s", input.Action)
	}

	sub, err = s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sse.PublishSubmissionUpdate(sub.ID, sub.EmployeeNIK, sub.Status)
	s.notifyAsync(notify.Event{
		Type:        notify.EventSubmissionReviewed,
		EmployeeNIK: sub.EmployeeNIK,
		RefID:       sub.ID,
		Title:       "Pengajuan perubahan data",
		Status:      sub.Status,
		Detail:      sub.ReviewNotes,
	})

	return sub, nil
}

// partialToColumns 把嵌套的部分更新转成员工表的列更新
// 标量路径直接写列；分组路径先取当前JSONB再按叶子合并，未采纳的叶子保持原值
func (s *SubmissionService) partialToColumns(sub *entity.EmployeeDataSubmission, partial map[string]interface{}) map[string]interface{} {
	if len(partial) == 0 {
		return map[string]interface{}{}
	}

	emp := sub.Employee
	fields := make(map[string]interface{})
	for key, value := range partial {
		group, ok := value.(map[string]interface{})
		if !ok {
			// 列表字段走JSONB数组类型，保证gorm正确序列化
			if list, ok := value.([]interface{}); ok {
				fields[key] = entity.JSONBArray(list)
			} else {
				fields[key] = value
			}
			continue
		}

		merged := map[string]interface{}{}
		if emp != nil {
			var current entity.JSONB
			switch key {
			case "bank_account":
				current = emp.BankAccount
			case "bpjs":
				current = emp.BPJS
			case "address":
				current = emp.Address
			}
			for k, v := range current {
				merged[k] = v
			}
		}
		for k, v := range group {
			merged[k] = v
		}
		fields[key] = entity.JSONB(merged)
	}
	return fields
}

// ListByNIK 获取员工的提交历史
func (s *SubmissionService) ListByNIK(ctx context.Context, nik string) ([]entity.EmployeeDataSubmission, error) {
	return s.subRepo.ListByNIK(ctx, nik)
}

// List 获取提交列表（后台）
func (s *SubmissionService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*SubmissionListResult, error) {
	subs, total, err := s.subRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &SubmissionListResult{
		Items:      subs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *SubmissionService) notifyAsync(event notify.Event) {
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
