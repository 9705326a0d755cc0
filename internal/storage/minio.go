package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/constants"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// ArtifactStore 生成文档归档接口
type ArtifactStore interface {
	// UploadDocument 归档一份生成的PDF，返回对象键
	UploadDocument(ctx context.Context, userID, documentID string, data []byte) (string, error)

	// GetDocument 取回归档的PDF
	GetDocument(ctx context.Context, objectKey string) ([]byte, error)
}

// 确保MinIO实现了ArtifactStore接口
var _ ArtifactStore = (*MinIO)(nil)

// MinIO 对象存储适配器，保存生成简历的归档副本
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
}

// NewMinIO 创建MinIO客户端并确保归档桶存在
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	bucket := cfg.ArtifactsBucket
	if bucket == "" {
		bucket = "resume-artifacts"
	}

	m := &MinIO{client: client, cfg: cfg, bucket: bucket}

	if err := m.ensureBucketExists(bucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("确保归档桶 %s 存在失败: %w", bucket, err)
	}
	if cfg.ArtifactExpireDays > 0 {
		if err := m.setupBucketLifecycle(context.Background(), cfg.ArtifactExpireDays); err != nil {
			// 生命周期规则失败不致命，归档仍然可用
			return m, nil
		}
	}
	return m, nil
}

func (m *MinIO) ensureBucketExists(bucketName, location string) error {
	ctx := context.Background()
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查桶是否存在失败: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("创建桶失败: %w", err)
		}
	}
	return nil
}

func (m *MinIO) setupBucketLifecycle(ctx context.Context, expireDays int) error {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     "expire-artifacts",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expireDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, m.bucket, lc)
}

// UploadDocument 归档一份生成的PDF，对象键为 <userID>/<documentID>.pdf
func (m *MinIO) UploadDocument(ctx context.Context, userID, documentID string, data []byte) (string, error) {
	objectKey := fmt.Sprintf("%s/%s.pdf", userID, documentID)
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: constants.PDFContentType})
	if err != nil {
		return "", fmt.Errorf("归档PDF到MinIO失败: %w", err)
	}
	return objectKey, nil
}

// GetDocument 取回归档副本
func (m *MinIO) GetDocument(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("读取归档对象失败: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取归档对象内容失败: %w", err)
	}
	return data, nil
}
