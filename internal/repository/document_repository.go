package repository

import (
	"context"
	"errors"
	"fmt"

	"resume-builder-go/internal/storage/models"

	"gorm.io/gorm"
)

// DocumentRepository 文档生成记录访问层
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建文档记录仓库
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// SaveGenerated 归档成功后落一条生成记录
func (r *DocumentRepository) SaveGenerated(ctx context.Context, doc *models.GeneratedDocument) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("保存文档生成记录失败: %w", err)
	}
	return nil
}

// ListByUser 按生成时间倒序列出用户的历史文档记录
func (r *DocumentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.GeneratedDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	var docs []models.GeneratedDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("查询文档生成记录失败: %w", err)
	}
	return docs, nil
}

// FindByDocumentID 查询单条生成记录，限定在该用户名下
// 记录不存在时返回 gorm.ErrRecordNotFound
func (r *DocumentRepository) FindByDocumentID(ctx context.Context, userID, documentID string) (*models.GeneratedDocument, error) {
	var doc models.GeneratedDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("查询文档生成记录失败: %w", err)
	}
	return &doc, nil
}
