package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/swaprodev/hallo/internal/config"
	"github.com/swaprodev/hallo/internal/hr/entity"
	"github.com/swaprodev/hallo/internal/hr/handler"
	"github.com/swaprodev/hallo/internal/hr/repository"
	"github.com/swaprodev/hallo/internal/hr/service"
	"github.com/swaprodev/hallo/internal/middleware"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting hallo-hr service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// 建表
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Client{},
		&entity.Employee{},
		&entity.Payslip{},
		&entity.ContractDocument{},
		&entity.DocumentRequest{},
		&entity.EmployeeDataSubmission{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 手动补充索引（AutoMigrate 对部分复合索引支持不完整）
	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_document_requests_nik_status ON document_requests(employee_nik, status)",
		"CREATE INDEX IF NOT EXISTS idx_document_requests_requested_at ON document_requests(requested_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_data_submissions_nik_status ON employee_data_submissions(employee_nik, status)",
		"CREATE INDEX IF NOT EXISTS idx_payslips_period ON payslips(period)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化依赖
	repos := repository.NewRepositories(db)

	// Seed: 配置里的固定账号（密码启动时哈希落库）
	seedAdmins(db, repos, cfg, zapLogger)

	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services, cfg)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// seedAdmins 把配置里的固定账号写入用户表
// 按用户名冲突更新，改配置里的密码重启即生效
func seedAdmins(db *gorm.DB, repos *repository.Repositories, cfg *config.Config, zapLogger *zap.Logger) {
	for _, a := range cfg.Admins {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			zapLogger.Warn("Failed to hash admin password", zap.String("username", a.Username), zap.Error(err))
			continue
		}

		role := a.Role
		if role == "" {
			role = entity.RolePIC
		}

		user := &entity.User{
			ID:           strings.ReplaceAll(uuid.New().String(), "-", ""),
			Username:     a.Username,
			Name:         a.Name,
			PasswordHash: string(hash),
			Role:         role,
			Status:       "active",
		}
		if err := repos.User.Upsert(context.Background(), user); err != nil {
			zapLogger.Warn("Failed to seed admin account", zap.String("username", a.Username), zap.Error(err))
			continue
		}
		zapLogger.Info("Seeded admin account", zap.String("username", a.Username), zap.String("role", role))
	}
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 员工自助端（无登录态，凭NIK访问）
		public := v1.Group("/public")
		{
			public.GET("/employees/:nik", h.Public.GetEmployee)
			public.POST("/document-requests", h.Public.CreateRequest)
			public.GET("/document-requests", h.Public.ListRequests)
			public.GET("/document-requests/:id/file", h.Public.RequestFile)
			public.POST("/submissions", h.Public.CreateSubmission)
			public.GET("/submissions", h.Public.ListSubmissions)
		}

		// SSE 实时推送（需要认证，支持 query param token）
		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			sseGroup.GET("/events", h.SSE.Stream)
		}

		// 需要认证的后台接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 当前用户
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 员工管理
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.GET("/export", h.Employee.Export)
				employees.POST("", h.Employee.Create)
				employees.POST("/import", h.Employee.Import)
				employees.GET("/:nik", h.Employee.Get)
				employees.PUT("/:nik", h.Employee.Update)
				employees.POST("/:nik/archive", h.Employee.Archive)
				employees.DELETE("/:nik", middleware.RequireRole(entity.RoleAdmin), h.Employee.Delete)
			}

			// 客户公司管理
			clients := authorized.Group("/clients")
			{
				clients.GET("", h.Client.List)
				clients.POST("", h.Client.Create)
				clients.GET("/:id", h.Client.Get)
				clients.PUT("/:id", h.Client.Update)
				clients.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Client.Delete)
			}

			// 工资单管理
			payslips := authorized.Group("/payslips")
			{
				payslips.GET("", h.Payslip.List)
				payslips.POST("", h.Payslip.Upload)
				payslips.GET("/:id", h.Payslip.Get)
				payslips.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Payslip.Delete)
			}

			// 合同文档管理
			contracts := authorized.Group("/contract-documents")
			{
				contracts.GET("", h.Contract.List)
				contracts.POST("", h.Contract.Upload)
				contracts.GET("/:id", h.Contract.Get)
				contracts.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Contract.Delete)
			}

			// 文档请求处理
			requests := authorized.Group("/document-requests")
			{
				requests.GET("", h.Request.List)
				requests.GET("/:id", h.Request.Get)
				requests.POST("/:id/respond", h.Request.Respond)
			}

			// 资料提交审核
			submissions := authorized.Group("/data-submissions")
			{
				submissions.GET("", h.Submission.List)
				submissions.GET("/:id", h.Submission.Get)
				submissions.GET("/:id/diff", h.Submission.Diff)
				submissions.POST("/:id/review", h.Submission.Review)
			}
		}
	}
}
