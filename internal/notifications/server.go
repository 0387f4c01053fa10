package notifications

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Notification は受信した通知レコード。
type Notification struct {
	// ID は通知の一意識別子。受信時に採番する。
	ID string `json:"id"`
	// UserID は通知先ユーザーのID。
	UserID int64 `json:"user_id"`
	// Message は通知メッセージ。
	Message string `json:"message"`
}

// historyLog は受信した通知の履歴。
// 所有権はサービスプロセスに閉じており、RWMutexで並行アクセスから保護する。
type historyLog struct {
	mu      sync.RWMutex
	entries []Notification
}

// append は通知を履歴に追記する。
func (h *historyLog) append(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, n)
}

// list は履歴のコピーを受信順で返す。
func (h *historyLog) list() []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]Notification, len(h.entries))
	copy(entries, h.entries)
	return entries
}

// Server は通知サービスのHTTPサーバー。
// 通知の配信先は持たず、受信した通知をログ出力して履歴に残すのみ。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// history は受信した通知の履歴。
	history *historyLog
}

// NewServer は新しい通知サーバーを生成する。
func NewServer(port string) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:  router,
		port:    port,
		history: &historyLog{entries: make([]Notification, 0)},
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
	// 通知の受信
	s.router.POST("/notify", s.handleNotify())
	// 受信済み通知の一覧取得
	s.router.GET("/notifications", s.handleList())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notifications"})
	})
}

// notifyRequest は通知受信リクエストのJSON構造。
type notifyRequest struct {
	// UserID は通知先ユーザーのID。
	UserID int64 `json:"user_id" binding:"required"`
	// Message は通知メッセージ。
	Message string `json:"message" binding:"required"`
}

// handleNotify は通知の受信を処理するハンドラを返す。
// 通知をログに出力し、履歴に追記する。
func (s *Server) handleNotify() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req notifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		n := Notification{
			ID:      uuid.New().String(),
			UserID:  req.UserID,
			Message: req.Message,
		}
		log.Printf("[NOTIFICATION] ユーザー %d へ: %s", n.UserID, n.Message)
		s.history.append(n)

		c.JSON(http.StatusOK, gin.H{"status": "sent"})
	}
}

// handleList は受信済み通知の一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.history.list())
	}
}
