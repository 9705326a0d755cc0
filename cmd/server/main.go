package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-builder-go/internal/api/handler"
	"resume-builder-go/internal/api/router"
	"resume-builder-go/internal/auth"
	"resume-builder-go/internal/config"
	"resume-builder-go/internal/logger"
	"resume-builder-go/internal/processor"
	"resume-builder-go/internal/repository"
	"resume-builder-go/internal/storage"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	logger.Init(cfg.Logger)
	// Hertz框架日志也走zerolog
	glog.SetLogger(hertzadapter.From(logger.Logger))
	logger.Info().Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()
	logger.Info().Msg("存储服务初始化成功")

	db := storageManager.MySQL.DB()
	users := repository.NewUserRepository(db)
	sections := repository.NewSectionRepository(db)
	docs := repository.NewDocumentRepository(db)

	tokens := auth.NewTokenManager(&cfg.Auth)

	// Redis不可用时会话白名单降级为纯JWT校验
	var sessions auth.SessionStore
	if storageManager.Redis != nil {
		sessions = storageManager.Redis
	}
	resolver := auth.NewIdentityResolver(tokens, sessions)

	// 归档和事件发布按存储组件的可用性降级
	var artifacts storage.ArtifactStore
	if storageManager.MinIO != nil {
		artifacts = storageManager.MinIO
	}
	var events processor.EventPublisher
	if storageManager.RabbitMQ != nil {
		events = storageManager.RabbitMQ
	}

	documentService := processor.NewDocumentService(
		sections, docs, artifacts, events,
		cfg.Document, cfg.RabbitMQ,
	)

	authHandler := handler.NewAuthHandler(users, tokens, sessions, cfg.Auth)
	sectionHandler := handler.NewSectionHandler(sections)
	resumeHandler := handler.NewResumeHandler(documentService)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(recovery.Recovery())
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		logger.Info().
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", ctx.Response.StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("请求处理完成")
	})

	router.RegisterRoutes(h, resolver, cfg.Auth.CookieName, authHandler, sectionHandler, resumeHandler)
	logger.Info().Msg("HTTP路由注册成功")

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器启动中")
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	logger.Info().Msg("优雅退出完成")
}
