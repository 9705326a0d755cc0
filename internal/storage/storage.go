package storage

import (
	"context"
	"fmt"
	"strings"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/logger"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 关系型数据库
	MySQL *MySQL

	// 键值存储（会话白名单）
	Redis *Redis

	// 对象存储（文档归档）
	MinIO *MinIO

	// 消息队列（简历事件，可选）
	RabbitMQ *RabbitMQ
}

// NewStorage 创建存储管理器
// MySQL是硬依赖，初始化失败直接报错；Redis/MinIO/RabbitMQ按配置初始化，
// 失败时记录告警并降级（对应功能按未启用处理）
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var err error
	var initErrors []string

	// 初始化MySQL
	storage.MySQL, err = NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("初始化MySQL失败: %w", err)
	}
	logger.Info().Msg("MySQL客户端初始化成功")

	// 初始化Redis
	if cfg.Redis.Address != "" {
		storage.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			logger.Info().Msg("Redis客户端初始化成功")
		}
	}

	// 初始化MinIO（如果配置了）
	if cfg.MinIO.Endpoint != "" && cfg.MinIO.AccessKeyID != "" {
		storage.MinIO, err = NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败，文档归档不可用")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		} else {
			logger.Info().Msg("MinIO客户端初始化成功")
		}
	}

	// 初始化RabbitMQ（如果配置了）
	if cfg.RabbitMQ.URL != "" {
		storage.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败，事件发布不可用")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		} else {
			logger.Info().Msg("RabbitMQ客户端初始化成功")
		}
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}

	return storage, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	// MinIO客户端无需显式Close
}
