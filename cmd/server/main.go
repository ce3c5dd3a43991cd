package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"match-system/config"
	"match-system/internal/handler"
	"match-system/internal/integrity"
	"match-system/internal/model"
	"match-system/internal/repository"
	"match-system/internal/service"
	dbPkg "match-system/pkg/db"
	"match-system/pkg/janitor"
	"match-system/pkg/jwt"
	"match-system/pkg/logger"
	redisPkg "match-system/pkg/redis"
	"match-system/pkg/response"
	"match-system/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 交友系统后端启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.String("upload_dir", cfg.Upload.Dir),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	gdb, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(
		&model.User{},
		&model.Country{}, &model.State{}, &model.City{},
		&model.UserPreferences{}, &model.UserAttributes{},
		&model.Message{}, &model.MessageAttachment{},
		&model.UserImage{}, &model.UserLike{}, &model.UserFavorite{},
		&model.UserBlock{}, &model.UserReport{}, &model.UserMatch{},
		&model.UserSession{},
		&model.ActivityLog{}, &model.CompatibilityScore{},
		&model.ConversationRemoval{}, &model.NameChange{},
		&model.NotificationSetting{}, &model.PrivacySetting{},
		&model.DeletedUser{}, &model.DeletedUserReceiver{},
		&model.BlacklistEntry{},
	); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 初始化Redis（失败不阻断启动，仅降级缓存与离线通知）
	if err := redisPkg.InitRedis(cfg.Redis); err != nil {
		log.Warn("Redis连接失败，缓存与离线通知功能不可用", zap.Error(err))
	} else {
		log.Info("Redis连接成功")
		defer redisPkg.Close()
	}

	// 3.3 探测辅助表能力，扫描与级联删除按此执行
	caps := integrity.DetectCapabilities(gdb)

	// 3.4 初始化业务服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	userRepo := repository.NewUserRepository(gdb)
	userSvc := service.NewUserService(userRepo, jwtSvc)
	lifecycleRepo := repository.NewLifecycleRepository(gdb)
	blacklistSvc := service.NewBlacklistService(userRepo, lifecycleRepo)
	integritySvc := service.NewIntegrityService(gdb, caps, cfg.Integrity.MaxIssuesPerCheck)

	fileJanitor := janitor.New(cfg.Upload.Dir)
	deletionSvc := service.NewDeletionService(gdb, caps, fileJanitor, websocket.GetManager())
	deletionSvc.SetProfileCacheInvalidator(redisPkg.InvalidateUserProfile)

	authHandler := handler.NewAuthHandler(userSvc)
	adminUserHandler := handler.NewAdminUserHandler(userSvc, deletionSvc, blacklistSvc)
	integrityHandler := handler.NewIntegrityHandler(integritySvc)

	// 4. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 创建Gin路由
	router := gin.New()

	// 注入jwt_config到Gin context，供WebSocket使用
	router.Use(func(c *gin.Context) {
		c.Set("jwt_config", cfg.JWT)
		c.Next()
	})

	router.Use(logger.LoggerMiddleware())
	router.Use(logger.ErrorLoggerMiddleware())

	// 6. 基础路由
	setupBasicRoutes(router)

	// 6.1 业务路由
	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/login", authHandler.Login)
		}

		// 管理后台路由（需要管理员权限）
		admin := v1.Group("/admin")
		admin.Use(jwtSvc.AuthMiddleware(), jwtSvc.AdminMiddleware())
		{
			admin.GET("/users", adminUserHandler.ListUsers)                         // 用户列表
			admin.GET("/users/:user_id", adminUserHandler.GetUser)                  // 用户详情
			admin.PUT("/users/:user_id/ban", adminUserHandler.BanUser)              // 封禁/解封
			admin.DELETE("/users/:user_id", adminUserHandler.DeleteUser)            // 删除账号
			admin.POST("/users/:user_id/blacklist", adminUserHandler.BlacklistUser) // 加入黑名单

			admin.POST("/integrity/scan", integrityHandler.Scan)     // 完整性扫描
			admin.POST("/integrity/repair", integrityHandler.Repair) // 自动修复
		}
	}

	// WebSocket路由
	router.GET("/ws", websocket.WsHandler)

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}

// setupBasicRoutes 设置基础路由
func setupBasicRoutes(router *gin.Engine) {
	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := dbPkg.HealthCheck(); err != nil {
			status = "db-down"
		}
		response.Success(c, gin.H{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 根路径
	router.GET("/", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "交友系统后端服务",
			"version": "1.0.0",
		})
	})
}
