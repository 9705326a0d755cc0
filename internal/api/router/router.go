package router

import (
	"context"

	"resume-builder-go/internal/api/handler"
	"resume-builder-go/internal/api/middleware"
	"resume-builder-go/internal/auth"
	"resume-builder-go/internal/constants"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册 API 路由
// 认证接口开放，其余接口都挂认证中间件
func RegisterRoutes(
	h *server.Hertz,
	resolver *auth.IdentityResolver,
	cookieName string,
	authHandler *handler.AuthHandler,
	sectionHandler *handler.SectionHandler,
	resumeHandler *handler.ResumeHandler,
) {
	api := h.Group("/api/v1")

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("", middleware.Auth(resolver, cookieName)...)

	protected.GET("/personal-info", sectionHandler.GetPersonalInfo)
	protected.POST("/personal-info", sectionHandler.SavePersonalInfo)

	protected.GET("/experience", sectionHandler.GetSection(constants.SectionExperience))
	protected.POST("/experience", sectionHandler.SaveExperience)

	protected.GET("/education", sectionHandler.GetSection(constants.SectionEducation))
	protected.POST("/education", sectionHandler.SaveSection(constants.SectionEducation))
	protected.GET("/projects", sectionHandler.GetSection(constants.SectionProjects))
	protected.POST("/projects", sectionHandler.SaveSection(constants.SectionProjects))
	protected.GET("/certifications", sectionHandler.GetSection(constants.SectionCertifications))
	protected.POST("/certifications", sectionHandler.SaveSection(constants.SectionCertifications))
	protected.GET("/achievements", sectionHandler.GetSection(constants.SectionAchievements))
	protected.POST("/achievements", sectionHandler.SaveSection(constants.SectionAchievements))

	protected.GET("/skills", sectionHandler.GetSection(constants.SectionSkills))
	protected.POST("/skills", sectionHandler.SaveSkills)

	protected.GET("/resume/preview", resumeHandler.Preview)
	protected.GET("/resume/download", resumeHandler.Download)
	protected.GET("/resume/documents", resumeHandler.History)
	protected.GET("/resume/documents/:id", resumeHandler.DownloadArchived)
}
