package handler

import (
	"context"
	"errors"
	"strings"

	"resume-builder-go/internal/auth"
	"resume-builder-go/internal/config"
	"resume-builder-go/internal/logger"
	"resume-builder-go/internal/repository"
	"resume-builder-go/internal/storage/models"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"gorm.io/gorm"
)

// AuthHandler 注册、登录、注销
type AuthHandler struct {
	users    *repository.UserRepository
	tokens   *auth.TokenManager
	sessions auth.SessionStore // 可为nil，降级为不维护白名单
	authCfg  config.AuthConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	users *repository.UserRepository,
	tokens *auth.TokenManager,
	sessions auth.SessionStore,
	authCfg config.AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		authCfg:  authCfg,
	}
}

// SignupRequest 注册请求体
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 登录请求体
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse 注册和登录的响应体
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Signup 注册新用户，成功后直接建立会话
func (h *AuthHandler) Signup(c context.Context, ctx *app.RequestContext) {
	var req SignupRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式不正确"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "姓名、邮箱不能为空，密码至少8位"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("密码哈希失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "注册失败"})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(c, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			ctx.JSON(consts.StatusConflict, utils.H{"error": "邮箱已被注册"})
			return
		}
		logger.Error().Err(err).Msg("创建用户失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "注册失败"})
		return
	}

	h.establishSession(c, ctx, user)
}

// Login 邮箱密码登录
// 用户不存在和密码错误返回同一个提示，不泄露账号是否注册过
func (h *AuthHandler) Login(c context.Context, ctx *app.RequestContext) {
	var req LoginRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式不正确"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.users.FindByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "邮箱或密码错误"})
			return
		}
		logger.Error().Err(err).Msg("查询用户失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "登录失败"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "邮箱或密码错误"})
		return
	}

	h.establishSession(c, ctx, user)
}

// Logout 注销当前会话：白名单删除对应JTI并清掉Cookie
func (h *AuthHandler) Logout(c context.Context, ctx *app.RequestContext) {
	credential := bearerToken(ctx)
	if credential == "" {
		credential = string(ctx.Cookie(h.authCfg.CookieName))
	}

	if credential != "" && h.sessions != nil {
		if claims, err := h.tokens.Parse(credential); err == nil {
			if err := h.sessions.DeleteSession(c, claims.ID); err != nil {
				logger.Warn().Err(err).Msg("删除会话白名单失败")
			}
		}
	}

	h.setSessionCookie(ctx, "", -1)
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// establishSession 签发令牌、写入白名单、种Cookie并返回响应体
func (h *AuthHandler) establishSession(c context.Context, ctx *app.RequestContext, user *models.User) {
	token, jti, err := h.tokens.Issue(user.UserID, user.Email)
	if err != nil {
		logger.Error().Err(err).Msg("签发令牌失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "建立会话失败"})
		return
	}

	if h.sessions != nil {
		if err := h.sessions.SaveSession(c, jti, user.UserID, h.tokens.TTL()); err != nil {
			logger.Error().Err(err).Msg("写入会话白名单失败")
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "建立会话失败"})
			return
		}
	}

	h.setSessionCookie(ctx, token, int(h.tokens.TTL().Seconds()))
	ctx.JSON(consts.StatusOK, AuthResponse{
		Token:  token,
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
	})
}

func (h *AuthHandler) setSessionCookie(ctx *app.RequestContext, token string, maxAge int) {
	ctx.SetCookie(
		h.authCfg.CookieName,
		token,
		maxAge,
		"/",
		"",
		protocol.CookieSameSiteLaxMode,
		true,  // secure
		true,  // httpOnly
	)
}

// bearerToken 从 Authorization 头里取出 Bearer 令牌
func bearerToken(ctx *app.RequestContext) string {
	header := string(ctx.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
