package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"resume-builder-go/internal/api/middleware"
	"resume-builder-go/internal/constants"
	"resume-builder-go/internal/logger"
	"resume-builder-go/internal/processor"
	"resume-builder-go/internal/resume"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// ResumeHandler 简历文档的预览和下载
type ResumeHandler struct {
	docs *processor.DocumentService
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(docs *processor.DocumentService) *ResumeHandler {
	return &ResumeHandler{docs: docs}
}

// Preview 返回整合后的规范化简历JSON
// 前端预览画布和PDF下载消费的是同一份数据
func (h *ResumeHandler) Preview(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	canonical, err := h.docs.Preview(c, userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("生成简历预览失败")
		ctx.JSON(statusFor(err), utils.H{"error": "生成预览失败"})
		return
	}
	ctx.JSON(consts.StatusOK, utils.H{"data": canonical})
}

// Download 跑完整条合成流水线并返回PDF附件
func (h *ResumeHandler) Download(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	artifact, err := h.docs.Generate(c, userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("生成简历文档失败")
		ctx.JSON(statusFor(err), utils.H{"error": "生成文档失败"})
		return
	}

	logger.Info().
		Str("user_id", userID).
		Str("document_id", artifact.DocumentID).
		Int("page_count", artifact.PageCount).
		Int("size_bytes", len(artifact.PDF)).
		Msg("简历文档生成完成")

	ctx.Response.Header.Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, constants.PDFFilename))
	ctx.Data(consts.StatusOK, constants.PDFContentType, artifact.PDF)
}

// GeneratedDocumentResponse 历史生成记录的响应条目
type GeneratedDocumentResponse struct {
	DocumentID  string    `json:"documentId"`
	PageCount   int       `json:"pageCount"`
	SizeBytes   int64     `json:"sizeBytes"`
	GeneratedAt time.Time `json:"generatedAt"`
	Archived    bool      `json:"archived"`
}

// History 按生成时间倒序列出历史生成记录
func (h *ResumeHandler) History(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	docs, err := h.docs.History(c, userID, limit)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("查询历史文档失败")
		ctx.JSON(statusFor(err), utils.H{"error": "查询失败"})
		return
	}

	items := make([]GeneratedDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, GeneratedDocumentResponse{
			DocumentID:  doc.DocumentID,
			PageCount:   doc.PageCount,
			SizeBytes:   doc.SizeBytes,
			GeneratedAt: doc.GeneratedAt,
			Archived:    doc.ObjectKey != "",
		})
	}
	ctx.JSON(consts.StatusOK, utils.H{"data": items})
}

// DownloadArchived 取回一份归档的历史PDF
func (h *ResumeHandler) DownloadArchived(c context.Context, ctx *app.RequestContext) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未认证的请求"})
		return
	}

	documentID := ctx.Param("id")
	artifact, err := h.docs.Archived(c, userID, documentID)
	if err != nil {
		if errors.Is(err, resume.ErrDocumentNotFound) {
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "归档文档不存在"})
			return
		}
		logger.Error().Err(err).
			Str("user_id", userID).
			Str("document_id", documentID).
			Msg("取回归档文档失败")
		ctx.JSON(statusFor(err), utils.H{"error": "取回归档失败"})
		return
	}

	ctx.Response.Header.Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, constants.PDFFilename))
	ctx.Data(consts.StatusOK, constants.PDFContentType, artifact.PDF)
}

// statusFor 流水线错误到HTTP状态码的映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, resume.ErrUnauthenticated):
		return consts.StatusUnauthorized
	case errors.Is(err, resume.ErrUserNotFound),
		errors.Is(err, resume.ErrDocumentNotFound):
		return consts.StatusNotFound
	case errors.Is(err, resume.ErrValidation):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}
