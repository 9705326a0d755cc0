package auth

import (
	"context"
	"testing"
	"time"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(ttlMinutes int) *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret:       "unit-test-secret",
		TokenTTLMinutes: ttlMinutes,
	})
}

func TestTokenIssueAndParse(t *testing.T) {
	m := newTestManager(60)

	token, jti, err := m.Issue("user-1", "jane@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane@x.com", claims.Email)
	assert.Equal(t, jti, claims.ID)
}

func TestTokenParse_WrongSecret(t *testing.T) {
	m1 := newTestManager(60)
	m2 := NewTokenManager(&config.AuthConfig{JWTSecret: "other-secret", TokenTTLMinutes: 60})

	token, _, err := m1.Issue("user-1", "jane@x.com")
	require.NoError(t, err)

	_, err = m2.Parse(token)
	assert.Error(t, err, "错误密钥签发的令牌不应通过校验")
}

func TestTokenParse_Garbage(t *testing.T) {
	m := newTestManager(60)
	_, err := m.Parse("not-a-jwt")
	assert.Error(t, err)
}

// fakeSessionStore 内存版会话白名单
type fakeSessionStore struct {
	sessions map[string]string
	failing  bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]string)}
}

func (f *fakeSessionStore) SaveSession(_ context.Context, jti, userID string, _ time.Duration) error {
	f.sessions[jti] = userID
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, jti string) (string, error) {
	if f.failing {
		return "", assert.AnError
	}
	uid, ok := f.sessions[jti]
	if !ok {
		return "", storage.ErrNotFound
	}
	return uid, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, jti string) error {
	delete(f.sessions, jti)
	return nil
}

func TestResolve_RoundTrip(t *testing.T) {
	m := newTestManager(60)
	store := newFakeSessionStore()
	resolver := NewIdentityResolver(m, store)
	ctx := context.Background()

	token, jti, err := m.Issue("user-42", "a@b.c")
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(ctx, jti, "user-42", time.Hour))

	uid, ok := resolver.Resolve(ctx, token)
	assert.True(t, ok)
	assert.Equal(t, "user-42", uid)

	// 注销后同一令牌立即失效
	require.NoError(t, store.DeleteSession(ctx, jti))
	_, ok = resolver.Resolve(ctx, token)
	assert.False(t, ok, "注销后的令牌不应再被接受")
}

func TestResolve_EmptyCredential(t *testing.T) {
	resolver := NewIdentityResolver(newTestManager(60), newFakeSessionStore())
	_, ok := resolver.Resolve(context.Background(), "")
	assert.False(t, ok)
}

func TestResolve_StoreFailureTreatedAsUnauthenticated(t *testing.T) {
	m := newTestManager(60)
	store := newFakeSessionStore()
	store.failing = true
	resolver := NewIdentityResolver(m, store)

	token, _, err := m.Issue("user-1", "a@b.c")
	require.NoError(t, err)

	_, ok := resolver.Resolve(context.Background(), token)
	assert.False(t, ok, "白名单读取失败时按未认证处理")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
