package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// 不存在的目录里找不到任何配置文件，应该回落到默认值
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "resume_builder", cfg.MySQL.Database)
	assert.Equal(t, float64(210), cfg.Document.PageWidth)
	assert.Equal(t, float64(297), cfg.Document.PageHeight)
	assert.Equal(t, float64(15), cfg.Document.Margin)
	assert.Equal(t, "auth_token", cfg.Auth.CookieName)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret, "环境变量应注入JWT密钥")
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	yaml := `
server:
  address: ":9090"
auth:
  jwt_secret: "from-file"
  token_ttl_minutes: 60
document:
  margin: 20
logger:
  level: debug
  format: pretty
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, float64(20), cfg.Document.Margin)
	// 文件中未出现的项保持默认
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	yaml := "auth:\n  jwt_secret: \"from-file\"\n"
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err, "缺少JWT密钥时应报错")
}

func TestTokenTTL(t *testing.T) {
	c := AuthConfig{TokenTTLMinutes: 90}
	assert.Equal(t, "1h30m0s", c.TokenTTL().String())

	c = AuthConfig{}
	assert.Equal(t, "24h0m0s", c.TokenTTL().String(), "未配置时默认24小时")
}
