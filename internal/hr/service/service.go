package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/swaprodev/hallo/internal/config"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/shared/notify"
	"github.com/swaprodev/hallo/internal/shared/storage"
)

// Services 服务集合
type Services struct {
	Auth       *AuthService
	Employee   *EmployeeService
	Client     *ClientService
	Payslip    *PayslipService
	Contract   *ContractService
	Request    *RequestService
	Submission *SubmissionService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// 初始化MinIO客户端
	var store *storage.Store
	if cfg.MinIO.Endpoint != "" {
		var err error
		store, err = storage.New(context.Background(), storage.Options{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			// 文件功能降级，其余功能继续
			logger.Warn("MinIO init failed, file features disabled", zap.Error(err))
			store = nil
		}
	}

	// 初始化webhook推送
	var notifier *notify.Client
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Notify.WebhookURL)
	}

	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg),
		Employee:   NewEmployeeService(repos.Employee, repos.Client),
		Client:     NewClientService(repos.Client, repos.Employee),
		Payslip:    NewPayslipService(repos.Payslip, repos.Employee, store),
		Contract:   NewContractService(repos.Contract, repos.Employee, store),
		Request:    NewRequestService(repos.Request, repos.Employee, repos.Payslip, repos.Contract, store, notifier, logger),
		Submission: NewSubmissionService(repos.Submission, repos.Employee, notifier, logger),
	}
}
