package comments

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/taskhub/pkg/config"
	"github.com/nao1215/taskhub/pkg/httpclient"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Server はコメントサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// repo はコメントレコードの保管層。
	repo Repository
	// notifyClient はnotificationsサービスへのHTTPクライアント。
	notifyClient *httpclient.Client
	// notificationsURL はnotificationsサービスのベースURL。
	notificationsURL string
}

// serverConfig はコメントサービス固有の設定。
type serverConfig struct {
	// NotificationsServiceURL はnotificationsサービスのベースURL。
	NotificationsServiceURL string `koanf:"notifications_service_url"`
}

// NewServer は新しいコメントサーバーを生成する。
func NewServer(port string) (*Server, error) {
	var cfg serverConfig
	if err := config.Load(map[string]any{
		"notifications_service_url": "http://localhost:8006",
	}, &cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:           router,
		port:             port,
		repo:             NewMemoryRepository(),
		notifyClient:     httpclient.New(),
		notificationsURL: cfg.NotificationsServiceURL,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// タスク配下のコメント
	s.router.GET("/tasks/:task_id/comments", s.handleListByTask())
	s.router.POST("/tasks/:task_id/comments", s.handleCreate())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "comments"})
	})
}

// createCommentRequest はコメント作成リクエストのJSON構造。
type createCommentRequest struct {
	// AuthorID はコメント作成者のユーザーID。
	AuthorID int64 `json:"author_id" binding:"required"`
	// Text はコメント本文。
	Text string `json:"text" binding:"required"`
}

// handleListByTask はタスク配下のコメント一覧取得を処理するハンドラを返す。
func (s *Server) handleListByTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "タスクIDが不正です"})
			return
		}

		comments, err := s.repo.ListByTask(c.Request.Context(), taskID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "コメント一覧の取得に失敗しました"})
			log.Printf("コメント一覧取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, comments)
	}
}

// handleCreate はコメント作成を処理するハンドラを返す。
// 作成後、レスポンス確定後に作成者へベストエフォートで通知を送信する。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "タスクIDが不正です"})
			return
		}

		var req createCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		comment, err := s.repo.Create(c.Request.Context(), Comment{
			TaskID:   taskID,
			AuthorID: req.AuthorID,
			Text:     req.Text,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "コメントの作成に失敗しました"})
			log.Printf("コメント作成エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, comment)

		// レスポンス確定後に作成者へベストエフォートで通知する
		go s.notify(comment.AuthorID, fmt.Sprintf("コメントをタスク %d に追加しました", comment.TaskID))
	}
}

// notifyRequest はnotificationsサービスへの通知リクエストのJSON構造。
type notifyRequest struct {
	// UserID は通知先ユーザーのID。
	UserID int64 `json:"user_id"`
	// Message は通知メッセージ。
	Message string `json:"message"`
}

// notify はnotificationsサービスへ通知を送信する。
// レスポンス確定後に別ゴルーチンから呼び出されるため、リクエストの
// コンテキストには紐付けない。失敗はログに残すのみで伝播しない。
func (s *Server) notify(userID int64, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), httpclient.DefaultTimeout)
	defer cancel()

	if _, ferr := s.notifyClient.PostJSON(ctx, s.notificationsURL+"/notify", notifyRequest{
		UserID:  userID,
		Message: message,
	}); ferr != nil {
		log.Printf("通知の送信に失敗: %v", ferr)
		return
	}
	log.Printf("ユーザー %d へ通知を送信しました", userID)
}
