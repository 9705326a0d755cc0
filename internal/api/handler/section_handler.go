package handler

import (
	"context"
	"errors"
	"strings"

	"resume-builder-go/internal/api/middleware"
	"resume-builder-go/internal/logger"
	"resume-builder-go/internal/repository"
	"resume-builder-go/internal/resume"
	"resume-builder-go/internal/storage/models"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// SectionHandler 简历分区的读写接口
type SectionHandler struct {
	sections *repository.SectionRepository
}

// NewSectionHandler 创建分区处理器
func NewSectionHandler(sections *repository.SectionRepository) *SectionHandler {
	return &SectionHandler{sections: sections}
}

// PersonalInfoRequest 个人档案请求体，字段与存储列一一对应
type PersonalInfoRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	LinkedinURL  string `json:"linkedinUrl"`
	GithubURL    string `json:"githubUrl"`
	PortfolioURL string `json:"portfolioUrl"`
	Location     string `json:"location"`
	Summary      string `json:"summary"`
}

// ExperienceRequest 工作经历条目，写入规范化行存储
type ExperienceRequest struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// GetPersonalInfo 读取个人档案
func (h *SectionHandler) GetPersonalInfo(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	profile, err := h.sections.GetProfile(c, userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("读取个人档案失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取失败"})
		return
	}
	if profile == nil {
		ctx.JSON(consts.StatusOK, utils.H{"data": nil})
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"data": PersonalInfoRequest{
		FullName:     profile.FullName,
		Email:        profile.Email,
		PhoneNumber:  profile.PhoneNumber,
		LinkedinURL:  profile.LinkedinURL,
		GithubURL:    profile.GithubURL,
		PortfolioURL: profile.PortfolioURL,
		Location:     profile.Location,
		Summary:      profile.Summary,
	}})
}

// SavePersonalInfo 写入个人档案
func (h *SectionHandler) SavePersonalInfo(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	var req PersonalInfoRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式不正确"})
		return
	}

	err := h.sections.UpsertProfile(c, userID, resume.RawProfile{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		LinkedinURL:  strings.TrimSpace(req.LinkedinURL),
		GithubURL:    strings.TrimSpace(req.GithubURL),
		PortfolioURL: strings.TrimSpace(req.PortfolioURL),
		Location:     strings.TrimSpace(req.Location),
		Summary:      req.Summary,
	})
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("保存个人档案失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "保存失败"})
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// GetSection 按分区名读取原始记录
// 经历分区会合并规范化行和JSON文档两个来源
func (h *SectionHandler) GetSection(section string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		userID, ok := middleware.UserID(ctx)
		if !ok {
			ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
			return
		}

		records, err := h.sections.LoadSection(c, userID, section)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID).Str("section", section).Msg("读取分区失败")
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取失败"})
			return
		}
		if records == nil {
			records = []resume.RawRecord{}
		}
		ctx.JSON(consts.StatusOK, utils.H{"data": records})
	}
}

// SaveExperience 整体替换工作经历，条目必须带company
func (h *SectionHandler) SaveExperience(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	var reqs []ExperienceRequest
	if err := ctx.BindJSON(&reqs); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式不正确"})
		return
	}

	rows := make([]models.ExperienceRow, 0, len(reqs))
	for _, req := range reqs {
		if strings.TrimSpace(req.Company) == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "经历条目缺少company字段"})
			return
		}
		rows = append(rows, models.ExperienceRow{
			Company:     strings.TrimSpace(req.Company),
			Position:    strings.TrimSpace(req.Position),
			Location:    strings.TrimSpace(req.Location),
			StartYear:   strings.TrimSpace(req.StartDate),
			EndYear:     strings.TrimSpace(req.EndDate),
			IsCurrent:   req.Current,
			Description: req.Description,
		})
	}

	if err := h.sections.ReplaceExperiences(c, userID, rows); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("保存工作经历失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "保存失败"})
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// SaveSection 整体替换JSON文档型分区的记录
func (h *SectionHandler) SaveSection(section string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		userID, ok := middleware.UserID(ctx)
		if !ok {
			ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
			return
		}

		var records []resume.RawRecord
		if err := ctx.BindJSON(&records); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体必须是对象数组"})
			return
		}

		err := h.sections.SaveSectionRecords(c, userID, section, records)
		if err != nil {
			if errors.Is(err, repository.ErrUnknownSection) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "未知的简历分区"})
				return
			}
			logger.Error().Err(err).Str("user_id", userID).Str("section", section).Msg("保存分区失败")
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "保存失败"})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	}
}

// SaveSkills 整体替换技能分类，保持请求里的顺序
func (h *SectionHandler) SaveSkills(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	var groups []resume.SkillGroup
	if err := ctx.BindJSON(&groups); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体必须是技能分类数组"})
		return
	}

	for _, group := range groups {
		if strings.TrimSpace(group.Category) == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "技能分类缺少category字段"})
			return
		}
	}

	if err := h.sections.SaveSkills(c, userID, groups); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("保存技能失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "保存失败"})
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}
