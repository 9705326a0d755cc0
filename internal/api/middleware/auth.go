package middleware

import (
	"context"

	"resume-builder-go/internal/auth"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
)

// IdentityKey 认证通过后写入请求上下文的用户ID键
const IdentityKey = "user_id"

// Auth 认证中间件链：凭证来源是 Authorization Bearer 头或会话Cookie
// Cookie里的令牌先提升到头部，再统一交给keyauth校验
func Auth(resolver *auth.IdentityResolver, cookieName string) []app.HandlerFunc {
	promote := func(c context.Context, ctx *app.RequestContext) {
		if len(ctx.GetHeader("Authorization")) == 0 {
			if cookie := ctx.Cookie(cookieName); len(cookie) > 0 {
				ctx.Request.Header.Set("Authorization", "Bearer "+string(cookie))
			}
		}
		ctx.Next(c)
	}

	guard := keyauth.New(
		keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
		keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, token string) (bool, error) {
			userID, ok := resolver.Resolve(c, token)
			if !ok {
				return false, nil
			}
			ctx.Set(IdentityKey, userID)
			return true, nil
		}),
		keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
			ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
			ctx.Abort()
		}),
	)

	return []app.HandlerFunc{promote, guard}
}

// UserID 取出认证中间件写入的用户ID
func UserID(ctx *app.RequestContext) (string, bool) {
	v, exists := ctx.Get(IdentityKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
