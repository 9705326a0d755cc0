package auth

import (
	"context"
	"errors"
	"time"

	"resume-builder-go/internal/logger"
	"resume-builder-go/internal/storage"
)

// SessionStore 会话白名单的最小接口，生产实现是 storage.Redis
type SessionStore interface {
	SaveSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, jti string) (string, error)
	DeleteSession(ctx context.Context, jti string) error
}

// IdentityResolver 把不透明的会话凭证解析为稳定的用户ID
// 凭证缺失、无效、过期或已注销时一律视为未认证，不会触发任何存储读取
type IdentityResolver struct {
	tokens   *TokenManager
	sessions SessionStore
}

// NewIdentityResolver 创建解析器；sessions可为nil（Redis降级时退化为纯JWT校验）
func NewIdentityResolver(tokens *TokenManager, sessions SessionStore) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, sessions: sessions}
}

// Resolve 解析凭证，返回用户ID；任何失败都返回 ok=false
func (r *IdentityResolver) Resolve(ctx context.Context, credential string) (userID string, ok bool) {
	if credential == "" {
		return "", false
	}

	claims, err := r.tokens.Parse(credential)
	if err != nil {
		logger.Debug().Err(err).Msg("会话令牌校验失败")
		return "", false
	}

	if r.sessions != nil {
		uid, err := r.sessions.GetSession(ctx, claims.ID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				// 基础设施错误也按未认证处理，但要留下线索
				logger.Warn().Err(err).Msg("读取会话白名单失败")
			}
			return "", false
		}
		if uid != claims.UserID {
			logger.Warn().Str("jti", claims.ID).Msg("会话白名单与令牌载荷不一致")
			return "", false
		}
	}

	return claims.UserID, true
}
