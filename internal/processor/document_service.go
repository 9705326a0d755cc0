package processor

import (
	"context"
	"errors"
	"time"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/constants"
	"resume-builder-go/internal/document"
	"resume-builder-go/internal/logger"
	"resume-builder-go/internal/resume"
	"resume-builder-go/internal/storage"
	"resume-builder-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"
)

// GeneratedArtifact 一次文档生成的结果
type GeneratedArtifact struct {
	DocumentID string
	PDF        []byte
	PageCount  int
}

// DocumentGeneratedEvent 文档生成完成后发布到消息队列的事件体
type DocumentGeneratedEvent struct {
	Event       string    `json:"event"`
	DocumentID  string    `json:"documentId"`
	UserID      string    `json:"userId"`
	ObjectKey   string    `json:"objectKey,omitempty"`
	PageCount   int       `json:"pageCount"`
	SizeBytes   int64     `json:"sizeBytes"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// SectionLoader 分区数据读取能力，由 repository.SectionRepository 提供
type SectionLoader interface {
	LoadBundle(ctx context.Context, userID string) (resume.RawSectionBundle, error)
}

// GenerationRecorder 生成记录的读写能力，由 repository.DocumentRepository 提供
type GenerationRecorder interface {
	SaveGenerated(ctx context.Context, doc *models.GeneratedDocument) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.GeneratedDocument, error)
	FindByDocumentID(ctx context.Context, userID, documentID string) (*models.GeneratedDocument, error)
}

// EventPublisher 事件发布能力，由 storage.RabbitMQ 提供
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, event any) error
}

// DocumentService 文档合成流水线：
// 分区读取 → 数据整合 → 版式计算 → PDF渲染，
// 之后按配置归档到对象存储并发布生成事件
type DocumentService struct {
	sections  SectionLoader
	docs      GenerationRecorder
	artifacts storage.ArtifactStore // 可为nil，降级为不归档
	events    EventPublisher        // 可为nil，降级为不发事件
	docCfg    config.DocumentConfig
	mqCfg     config.RabbitMQConfig
}

// NewDocumentService 创建文档服务
func NewDocumentService(
	sections SectionLoader,
	docs GenerationRecorder,
	artifacts storage.ArtifactStore,
	events EventPublisher,
	docCfg config.DocumentConfig,
	mqCfg config.RabbitMQConfig,
) *DocumentService {
	return &DocumentService{
		sections:  sections,
		docs:      docs,
		artifacts: artifacts,
		events:    events,
		docCfg:    docCfg,
		mqCfg:     mqCfg,
	}
}

// Preview 返回整合后的规范化简历，不渲染PDF
// 前端预览和PDF下载消费同一份规范化数据
func (s *DocumentService) Preview(ctx context.Context, userID string) (resume.CanonicalResume, error) {
	bundle, err := s.sections.LoadBundle(ctx, userID)
	if err != nil {
		return resume.CanonicalResume{}, wrapLoadError(userID, err)
	}
	return resume.Reconcile(bundle), nil
}

// Generate 跑完整条流水线，返回PDF字节流
// 归档和事件发布是尽力而为：失败只记日志，不影响本次下载
func (s *DocumentService) Generate(ctx context.Context, userID string) (*GeneratedArtifact, error) {
	bundle, err := s.sections.LoadBundle(ctx, userID)
	if err != nil {
		return nil, wrapLoadError(userID, err)
	}
	canonical := resume.Reconcile(bundle)

	geom := document.Geometry{
		PageWidth:  s.docCfg.PageWidth,
		PageHeight: s.docCfg.PageHeight,
		Margin:     s.docCfg.Margin,
	}
	plan := document.NewEngine(geom, document.NewMeasurer()).Layout(canonical)

	pdf, err := document.NewRenderer().Render(plan)
	if err != nil {
		return nil, resume.NewRenderingError(userID, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, resume.NewRenderingError(userID, err)
	}
	artifact := &GeneratedArtifact{
		DocumentID: id.String(),
		PDF:        pdf,
		PageCount:  plan.PageCount(),
	}

	objectKey := s.archive(ctx, userID, artifact)
	s.publish(ctx, userID, artifact, objectKey)
	return artifact, nil
}

// History 按生成时间倒序返回用户的历史生成记录
func (s *DocumentService) History(ctx context.Context, userID string, limit int) ([]models.GeneratedDocument, error) {
	docs, err := s.docs.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, resume.NewStorageError(userID, "list_documents", err)
	}
	return docs, nil
}

// Archived 取回一份归档的历史PDF
// 记录不存在、没有归档副本或对象存储不可用都视为文档不存在
func (s *DocumentService) Archived(ctx context.Context, userID, documentID string) (*GeneratedArtifact, error) {
	record, err := s.docs.FindByDocumentID(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resume.ErrDocumentNotFound
		}
		return nil, resume.NewStorageError(userID, "find_document", err)
	}
	if record.ObjectKey == "" || s.artifacts == nil {
		return nil, resume.ErrDocumentNotFound
	}

	pdf, err := s.artifacts.GetDocument(ctx, record.ObjectKey)
	if err != nil {
		return nil, resume.NewStorageError(userID, "get_archived", err)
	}
	return &GeneratedArtifact{
		DocumentID: record.DocumentID,
		PDF:        pdf,
		PageCount:  record.PageCount,
	}, nil
}

// wrapLoadError 用户已注销的错误原样透传，便于上层映射状态码；
// 其余都按存储失败处理
func wrapLoadError(userID string, err error) error {
	if errors.Is(err, resume.ErrUserNotFound) {
		return err
	}
	return resume.NewStorageError(userID, "load_sections", err)
}

// archive 按配置把PDF副本传到对象存储并落生成记录
func (s *DocumentService) archive(ctx context.Context, userID string, artifact *GeneratedArtifact) string {
	if !s.docCfg.ArchiveCopy || s.artifacts == nil {
		return ""
	}

	objectKey, err := s.artifacts.UploadDocument(ctx, userID, artifact.DocumentID, artifact.PDF)
	if err != nil {
		logger.Warn().Err(err).
			Str("user_id", userID).
			Str("document_id", artifact.DocumentID).
			Msg("文档归档失败，跳过")
		return ""
	}

	record := &models.GeneratedDocument{
		DocumentID:  artifact.DocumentID,
		UserID:      userID,
		ObjectKey:   objectKey,
		PageCount:   artifact.PageCount,
		SizeBytes:   int64(len(artifact.PDF)),
		GeneratedAt: time.Now(),
	}
	if err := s.docs.SaveGenerated(ctx, record); err != nil {
		logger.Warn().Err(err).
			Str("document_id", artifact.DocumentID).
			Msg("文档生成记录写入失败")
	}
	return objectKey
}

// publish 发布 document.generated 事件
func (s *DocumentService) publish(ctx context.Context, userID string, artifact *GeneratedArtifact, objectKey string) {
	if !s.docCfg.PublishEvent || s.events == nil {
		return
	}
	event := DocumentGeneratedEvent{
		Event:       constants.EventDocumentGenerated,
		DocumentID:  artifact.DocumentID,
		UserID:      userID,
		ObjectKey:   objectKey,
		PageCount:   artifact.PageCount,
		SizeBytes:   int64(len(artifact.PDF)),
		GeneratedAt: time.Now(),
	}
	if err := s.events.PublishJSON(ctx, s.mqCfg.GeneratedRoutingKey, event); err != nil {
		logger.Warn().Err(err).
			Str("document_id", artifact.DocumentID).
			Msg("文档生成事件发布失败")
	}
}
