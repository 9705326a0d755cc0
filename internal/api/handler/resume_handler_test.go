package handler_test

import (
	"context"
	"encoding/json"
	"testing"

	"resume-builder-go/internal/api/handler"
	"resume-builder-go/internal/api/router"
	"resume-builder-go/internal/auth"
	"resume-builder-go/internal/config"
	"resume-builder-go/internal/processor"
	"resume-builder-go/internal/repository"
	"resume-builder-go/internal/resume"
	"resume-builder-go/internal/storage/models"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLoader struct {
	bundle resume.RawSectionBundle
}

func (s *stubLoader) LoadBundle(_ context.Context, _ string) (resume.RawSectionBundle, error) {
	return s.bundle, nil
}

type stubRecorder struct{}

func (stubRecorder) SaveGenerated(_ context.Context, _ *models.GeneratedDocument) error {
	return nil
}

func (stubRecorder) ListByUser(_ context.Context, _ string, _ int) ([]models.GeneratedDocument, error) {
	return nil, nil
}

func (stubRecorder) FindByDocumentID(_ context.Context, _, _ string) (*models.GeneratedDocument, error) {
	return nil, gorm.ErrRecordNotFound
}

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "handler-test-secret",
		TokenTTLMinutes: 30,
		CookieName:      "auth_token",
	}
}

// newTestServer 组装一个不依赖外部存储的完整路由表：
// 文档服务用桩数据，会话白名单关闭（纯JWT校验）
func newTestServer(t *testing.T) (*server.Hertz, string) {
	t.Helper()

	authCfg := testAuthCfg()
	tokens := auth.NewTokenManager(&authCfg)
	resolver := auth.NewIdentityResolver(tokens, nil)

	loader := &stubLoader{bundle: resume.RawSectionBundle{
		Profile: &resume.RawProfile{FullName: "Jane Doe", Email: "jane@x.com"},
		Experiences: []resume.RawRecord{
			{"company": "Acme", "position": "Engineer", "startDate": "2020", "current": true},
		},
	}}
	svc := processor.NewDocumentService(
		loader, stubRecorder{}, nil, nil,
		config.DocumentConfig{PageWidth: 210, PageHeight: 297, Margin: 15},
		config.RabbitMQConfig{},
	)

	h := server.Default()
	router.RegisterRoutes(h,
		resolver,
		authCfg.CookieName,
		handler.NewAuthHandler(repository.NewUserRepository(nil), tokens, nil, authCfg),
		handler.NewSectionHandler(repository.NewSectionRepository(nil)),
		handler.NewResumeHandler(svc),
	)

	token, _, err := tokens.Issue("user-1", "jane@x.com")
	require.NoError(t, err)
	return h, token
}

func TestPreview_RequiresAuth(t *testing.T) {
	h, _ := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/preview", nil)
	assert.Equal(t, 401, resp.Result().StatusCode())
}

func TestPreview_ReturnsCanonicalJSON(t *testing.T) {
	h, token := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/preview", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + token})
	result := resp.Result()
	require.Equal(t, 200, result.StatusCode())

	var body struct {
		Data resume.CanonicalResume `json:"data"`
	}
	require.NoError(t, json.Unmarshal(result.Body(), &body))
	assert.Equal(t, "Jane Doe", body.Data.Profile.Name)
	require.Len(t, body.Data.Experiences, 1)
	assert.Equal(t, "Acme", body.Data.Experiences[0].Company)
	assert.True(t, body.Data.Experiences[0].Current)
}

func TestPreview_CookieCredentialAccepted(t *testing.T) {
	h, token := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/preview", nil,
		ut.Header{Key: "Cookie", Value: "auth_token=" + token})
	assert.Equal(t, 200, resp.Result().StatusCode())
}

func TestPreview_GarbageTokenRejected(t *testing.T) {
	h, _ := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/preview", nil,
		ut.Header{Key: "Authorization", Value: "Bearer not-a-token"})
	assert.Equal(t, 401, resp.Result().StatusCode())
}

func TestDownload_ReturnsPDFAttachment(t *testing.T) {
	h, token := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/download", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + token})
	result := resp.Result()
	require.Equal(t, 200, result.StatusCode())

	assert.Equal(t, "application/pdf", string(result.Header.ContentType()))
	assert.Contains(t, string(result.Header.Get("Content-Disposition")), "resume.pdf")

	body := result.Body()
	require.True(t, len(body) > 5)
	assert.Equal(t, "%PDF-", string(body[:5]))
}

func TestHistory_EmptyListWhenNothingGenerated(t *testing.T) {
	h, token := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/documents", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + token})
	result := resp.Result()
	require.Equal(t, 200, result.StatusCode())

	var body struct {
		Data []handler.GeneratedDocumentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(result.Body(), &body))
	assert.Empty(t, body.Data)
}

func TestDownloadArchived_UnknownDocument(t *testing.T) {
	h, token := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/resume/documents/no-such-id", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + token})
	assert.Equal(t, 404, resp.Result().StatusCode())
}

func TestHealthEndpointOpen(t *testing.T) {
	h, _ := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, resp.Result().StatusCode())
}
