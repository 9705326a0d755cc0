package processor

import (
	"context"
	"errors"
	"testing"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/resume"
	"resume-builder-go/internal/storage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoader struct {
	bundle resume.RawSectionBundle
	err    error
}

func (f *fakeLoader) LoadBundle(_ context.Context, _ string) (resume.RawSectionBundle, error) {
	return f.bundle, f.err
}

type fakeRecorder struct {
	saved []*models.GeneratedDocument
	err   error
}

func (f *fakeRecorder) SaveGenerated(_ context.Context, doc *models.GeneratedDocument) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, doc)
	return nil
}

func (f *fakeRecorder) ListByUser(_ context.Context, userID string, _ int) ([]models.GeneratedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	var docs []models.GeneratedDocument
	for _, doc := range f.saved {
		if doc.UserID == userID {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (f *fakeRecorder) FindByDocumentID(_ context.Context, userID, documentID string) (*models.GeneratedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, doc := range f.saved {
		if doc.UserID == userID && doc.DocumentID == documentID {
			return doc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePublisher struct {
	routingKeys []string
	events      []any
	err         error
}

func (f *fakePublisher) PublishJSON(_ context.Context, routingKey string, event any) error {
	if f.err != nil {
		return f.err
	}
	f.routingKeys = append(f.routingKeys, routingKey)
	f.events = append(f.events, event)
	return nil
}

type fakeArtifacts struct {
	uploads int
	objects map[string][]byte
	err     error
}

func (f *fakeArtifacts) UploadDocument(_ context.Context, userID, documentID string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	objectKey := userID + "/" + documentID + ".pdf"
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[objectKey] = data
	return objectKey, nil
}

func (f *fakeArtifacts) GetDocument(_ context.Context, objectKey string) ([]byte, error) {
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, errors.New("对象不存在")
	}
	return data, nil
}

func testDocCfg() config.DocumentConfig {
	return config.DocumentConfig{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       15,
		ArchiveCopy:  true,
		PublishEvent: true,
	}
}

func testBundle() resume.RawSectionBundle {
	return resume.RawSectionBundle{
		Profile: &resume.RawProfile{FullName: "Jane Doe", Email: "jane@x.com"},
		Experiences: []resume.RawRecord{
			{"company": "Acme", "position": "Engineer", "startDate": "2020", "current": true},
		},
	}
}

func TestGenerate_FullPipeline(t *testing.T) {
	loader := &fakeLoader{bundle: testBundle()}
	recorder := &fakeRecorder{}
	publisher := &fakePublisher{}
	artifacts := &fakeArtifacts{}
	mqCfg := config.RabbitMQConfig{GeneratedRoutingKey: "document.generated"}

	svc := NewDocumentService(loader, recorder, artifacts, publisher, testDocCfg(), mqCfg)

	artifact, err := svc.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, artifact)

	assert.NotEmpty(t, artifact.DocumentID)
	assert.Equal(t, 1, artifact.PageCount)
	require.True(t, len(artifact.PDF) > 5)
	assert.Equal(t, "%PDF-", string(artifact.PDF[:5]))

	assert.Equal(t, 1, artifacts.uploads)
	require.Len(t, recorder.saved, 1)
	assert.Equal(t, artifact.DocumentID, recorder.saved[0].DocumentID)
	assert.Equal(t, "user-1/"+artifact.DocumentID+".pdf", recorder.saved[0].ObjectKey)
	assert.Equal(t, int64(len(artifact.PDF)), recorder.saved[0].SizeBytes)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, []string{"document.generated"}, publisher.routingKeys)
	event, ok := publisher.events[0].(DocumentGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, "document.generated", event.Event)
	assert.Equal(t, artifact.DocumentID, event.DocumentID)
	assert.Equal(t, "user-1", event.UserID)
}

func TestGenerate_StorageErrorPropagates(t *testing.T) {
	loader := &fakeLoader{err: errors.New("连接超时")}
	svc := NewDocumentService(loader, &fakeRecorder{}, nil, nil, testDocCfg(), config.RabbitMQConfig{})

	_, err := svc.Generate(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resume.ErrStorage))
}

func TestPreview_UserGonePassesThrough(t *testing.T) {
	loader := &fakeLoader{err: resume.ErrUserNotFound}
	svc := NewDocumentService(loader, &fakeRecorder{}, nil, nil, testDocCfg(), config.RabbitMQConfig{})

	_, err := svc.Preview(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resume.ErrUserNotFound))
	assert.False(t, errors.Is(err, resume.ErrStorage), "用户已注销不是存储故障")
}

func TestGenerate_WithoutOptionalBackends(t *testing.T) {
	cfg := testDocCfg()
	cfg.ArchiveCopy = false
	cfg.PublishEvent = false
	recorder := &fakeRecorder{}

	svc := NewDocumentService(&fakeLoader{bundle: testBundle()}, recorder, nil, nil, cfg, config.RabbitMQConfig{})

	artifact, err := svc.Generate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.PDF)
	assert.Empty(t, recorder.saved, "关闭归档时不应写生成记录")
}

func TestGenerate_ArchiveFailureDoesNotFailDownload(t *testing.T) {
	artifacts := &fakeArtifacts{err: errors.New("存储桶不可用")}
	recorder := &fakeRecorder{}

	svc := NewDocumentService(&fakeLoader{bundle: testBundle()}, recorder, artifacts, nil, testDocCfg(), config.RabbitMQConfig{})

	artifact, err := svc.Generate(context.Background(), "user-1")
	require.NoError(t, err, "归档失败不应影响本次下载")
	assert.NotEmpty(t, artifact.PDF)
	assert.Empty(t, recorder.saved)
}

func TestHistoryAndArchived_RoundTrip(t *testing.T) {
	recorder := &fakeRecorder{}
	artifacts := &fakeArtifacts{}

	svc := NewDocumentService(&fakeLoader{bundle: testBundle()}, recorder, artifacts, nil, testDocCfg(), config.RabbitMQConfig{})

	generated, err := svc.Generate(context.Background(), "user-1")
	require.NoError(t, err)

	docs, err := svc.History(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, generated.DocumentID, docs[0].DocumentID)

	archived, err := svc.Archived(context.Background(), "user-1", generated.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, generated.PDF, archived.PDF)
	assert.Equal(t, generated.PageCount, archived.PageCount)
}

func TestArchived_UnknownDocument(t *testing.T) {
	svc := NewDocumentService(&fakeLoader{}, &fakeRecorder{}, &fakeArtifacts{}, nil, testDocCfg(), config.RabbitMQConfig{})

	_, err := svc.Archived(context.Background(), "user-1", "no-such-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resume.ErrDocumentNotFound))
}

func TestArchived_NoObjectStoreTreatedAsMissing(t *testing.T) {
	recorder := &fakeRecorder{saved: []*models.GeneratedDocument{
		{DocumentID: "doc-1", UserID: "user-1", ObjectKey: "user-1/doc-1.pdf"},
	}}
	svc := NewDocumentService(&fakeLoader{}, recorder, nil, nil, testDocCfg(), config.RabbitMQConfig{})

	_, err := svc.Archived(context.Background(), "user-1", "doc-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resume.ErrDocumentNotFound))
}

func TestPreview_ReturnsCanonicalResume(t *testing.T) {
	svc := NewDocumentService(&fakeLoader{bundle: resume.RawSectionBundle{}}, &fakeRecorder{}, nil, nil, testDocCfg(), config.RabbitMQConfig{})

	canonical, err := svc.Preview(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", canonical.Profile.Name, "档案缺失时使用占位姓名")
	assert.Empty(t, canonical.Experiences)
}
