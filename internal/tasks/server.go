package tasks

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/taskhub/pkg/config"
	"github.com/nao1215/taskhub/pkg/httpclient"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Server はタスクサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// repo はタスクレコードの保管層。
	repo Repository
	// notifyClient はnotificationsサービスへのHTTPクライアント。
	notifyClient *httpclient.Client
	// notificationsURL はnotificationsサービスのベースURL。
	notificationsURL string
}

// serverConfig はタスクサービス固有の設定。
type serverConfig struct {
	// NotificationsServiceURL はnotificationsサービスのベースURL。
	NotificationsServiceURL string `koanf:"notifications_service_url"`
}

// NewServer は新しいタスクサーバーを生成する。
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
	tasks := s.router.Group("/tasks")
	{
		// タスク一覧取得
		tasks.GET("", s.handleList())
		// タスク詳細取得
		tasks.GET("/:id", s.handleGetByID())
		// タスク作成
		tasks.POST("", s.handleCreate())
		// タスク部分更新
		tasks.PATCH("/:id", s.handleUpdate())
		// タスク削除
		tasks.DELETE("/:id", s.handleDelete())
	}

	// プロジェクト配下のタスク一覧取得
	s.router.GET("/projects/:project_id/tasks", s.handleListByProject())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "tasks"})
	})
}

// createTaskRequest はタスク作成リクエストのJSON構造。
// 進行状態は指定できず、常にtodoで作成される。
type createTaskRequest struct {
	// ProjectID は所属プロジェクトのID。
	ProjectID int64 `json:"project_id" binding:"required"`
	// Title はタスクのタイトル。
	Title string `json:"title" binding:"required"`
	// Description はタスクの説明。省略可能。
	Description *string `json:"description"`
	// AssigneeID は担当者のユーザーID。省略可能。
	AssigneeID *int64 `json:"assignee_id"`
}

// updateTaskRequest はタスク部分更新リクエストのJSON構造。
// 指定されたフィールドのみを更新する。
type updateTaskRequest struct {
	// Title は新しいタイトル。
	Title *string `json:"title"`
	// Description は新しい説明。
	Description *string `json:"description"`
	// Status は新しい進行状態。
	Status *Status `json:"status"`
	// AssigneeID は新しい担当者のユーザーID。
	AssigneeID *int64 `json:"assignee_id"`
}

// handleList はタスク一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := s.repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスク一覧の取得に失敗しました"})
			log.Printf("タスク一覧取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

// handleGetByID はタスク詳細取得を処理するハンドラを返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		task, err := s.repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの取得に失敗しました"})
			log.Printf("タスク取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// handleListByProject はプロジェクト配下のタスク一覧取得を処理するハンドラを返す。
func (s *Server) handleListByProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "プロジェクトIDが不正です"})
			return
		}

		tasks, err := s.repo.ListByProject(c.Request.Context(), projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスク一覧の取得に失敗しました"})
			log.Printf("タスク一覧取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

// handleCreate はタスク作成を処理するハンドラを返す。
// 作成後、担当者が指定されていればレスポンス確定後に通知を送信する。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		task, err := s.repo.Create(c.Request.Context(), Task{
			ProjectID:   req.ProjectID,
			Title:       req.Title,
			Description: req.Description,
			Status:      StatusTodo,
			AssigneeID:  req.AssigneeID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの作成に失敗しました"})
			log.Printf("タスク作成エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, task)

		// レスポンス確定後に担当者へベストエフォートで通知する
		if task.AssigneeID != nil {
			go s.notify(*task.AssigneeID, fmt.Sprintf("タスクが割り当てられました: %s", task.Title))
		}
	}
}

// handleUpdate はタスク部分更新を処理するハンドラを返す。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}
		if req.Status != nil && !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("不正な進行状態です: %s", *req.Status)})
			return
		}

		task, err := s.repo.Update(c.Request.Context(), id, TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			AssigneeID:  req.AssigneeID,
		})
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの更新に失敗しました"})
			log.Printf("タスク更新エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// handleDelete はタスク削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		err = s.repo.Delete(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "タスクの削除に失敗しました"})
			log.Printf("タスク削除エラー: %v", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
