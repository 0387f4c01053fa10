package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Server は認証サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
}

// NewServer は新しい認証サーバーを生成する。状態を持たない。
func NewServer(port string) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router: router,
		port:   port,
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// ログイン（認証不要）
	s.router.POST("/login", s.handleLogin())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "auth"})
	})
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Username はユーザー名。
	Username string `json:"username" binding:"required"`
	// Password はパスワード。検証には使用しない。
	Password string `json:"password" binding:"required"`
}

// loginResponse はログインレスポンスのJSON構造。
type loginResponse struct {
	// AccessToken は発行されたBearerトークン。
	AccessToken string `json:"access_token"`
	// TokenType はトークン種別。常に "bearer"。
	TokenType string `json:"token_type"`
}

// handleLogin は簡易ログインを処理するハンドラを返す。
// 任意のユーザー名とパスワードを受理し、ユーザー名のみに依存する
// 構造的なトークンを発行する。署名・有効期限・失効の仕組みは持たない。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		c.JSON(http.StatusOK, loginResponse{
			AccessToken: middleware.TokenPrefix + req.Username,
			TokenType:   "bearer",
		})
	}
}
