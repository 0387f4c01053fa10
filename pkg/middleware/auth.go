package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenPrefix は受理するBearerトークンの固定プレフィックス。
// トークンは "token_for_<username>" 形式の構造的な文字列であり、
// 署名・有効期限・失効の仕組みを持たない。auth サービスが発行する
// トークンと形式を一致させること。
const TokenPrefix = "token_for_"

// contextKeyUsername はGinコンテキストにユーザー名を格納するためのキー。
const contextKeyUsername = "username"

// BearerAuth はBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに "username" を設定する。
// 検証は構造チェックのみで、外部I/Oを行わない。
func BearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(authHeader, " ")
		if authHeader == "" || !found || !strings.EqualFold(scheme, "bearer") {
			unauthorized(c, "Not authenticated")
			return
		}

		username, ok := strings.CutPrefix(token, TokenPrefix)
		if !ok {
			unauthorized(c, "Invalid token format")
			return
		}
		if username == "" {
			unauthorized(c, "Invalid token (empty username)")
			return
		}

		c.Set(contextKeyUsername, username)
		c.Next()
	}
}

// unauthorized は401レスポンスを返してリクエストを中断する。
// WWW-AuthenticateヘッダーでBearer認証を要求する。
func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// GetUsername はGinコンテキストから認証済みユーザー名を取得する。
// BearerAuthミドルウェアが事前に適用されている必要がある。
func GetUsername(c *gin.Context) string {
	username, _ := c.Get(contextKeyUsername)
	if name, ok := username.(string); ok {
		return name
	}
	return ""
}
