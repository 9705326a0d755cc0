package constants

import "fmt"

// Redis键统一在这里拼装，避免各处手写前缀
const (
	// SessionKeyPrefix 会话白名单键前缀，值为用户ID
	SessionKeyPrefix = "session:"
)

// SessionKey 由令牌JTI生成会话键
func SessionKey(jti string) string {
	return fmt.Sprintf("%s%s", SessionKeyPrefix, jti)
}
