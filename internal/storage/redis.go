package storage

import (
	"context"
	"fmt"
	"time"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/constants"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound key不存在时返回，包装 redis.Nil 以便上层不感知具体实现
var ErrNotFound = redis.Nil

// Redis 封装Redis客户端，会话白名单存储在这里
type Redis struct {
	Client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opts.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opts.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Ping Redis失败: %w", err)
	}

	return &Redis{Client: client, cfg: cfg}, nil
}

// SaveSession 把令牌JTI写入白名单，TTL与令牌有效期一致
func (r *Redis) SaveSession(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := r.Client.Set(ctx, constants.SessionKey(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("写入会话白名单失败: %w", err)
	}
	return nil
}

// GetSession 按JTI取回用户ID，不存在返回 ErrNotFound
func (r *Redis) GetSession(ctx context.Context, jti string) (string, error) {
	val, err := r.Client.Get(ctx, constants.SessionKey(jti)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("读取会话白名单失败: %w", err)
	}
	return val, nil
}

// DeleteSession 注销时从白名单移除
func (r *Redis) DeleteSession(ctx context.Context, jti string) error {
	if err := r.Client.Del(ctx, constants.SessionKey(jti)).Err(); err != nil {
		return fmt.Errorf("删除会话白名单失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	return r.Client.Close()
}
