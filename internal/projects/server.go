package projects

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Server はプロジェクトサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// repo はプロジェクトレコードの保管層。
	repo Repository
}

// NewServer は新しいプロジェクトサーバーを生成する。
func NewServer(port string) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router: router,
		port:   port,
		repo:   NewMemoryRepository(),
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
	projects := s.router.Group("/projects")
	{
		// プロジェクト一覧取得
		projects.GET("", s.handleList())
		// プロジェクト詳細取得
		projects.GET("/:id", s.handleGetByID())
		// プロジェクト作成
		projects.POST("", s.handleCreate())
		// プロジェクト削除
		projects.DELETE("/:id", s.handleDelete())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "projects"})
	})
}

// createProjectRequest はプロジェクト作成リクエストのJSON構造。
type createProjectRequest struct {
	// Name はプロジェクト名。
	Name string `json:"name" binding:"required"`
	// Description はプロジェクトの説明。省略可能。
	Description *string `json:"description"`
	// OwnerID はプロジェクト所有者のユーザーID。
	OwnerID int64 `json:"owner_id" binding:"required"`
}

// handleList はプロジェクト一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := s.repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "プロジェクト一覧の取得に失敗しました"})
			log.Printf("プロジェクト一覧取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

// handleGetByID はプロジェクト詳細取得を処理するハンドラを返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		project, err := s.repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "プロジェクトの取得に失敗しました"})
			log.Printf("プロジェクト取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// handleCreate はプロジェクト作成を処理するハンドラを返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		project, err := s.repo.Create(c.Request.Context(), Project{
			Name:        req.Name,
			Description: req.Description,
			OwnerID:     req.OwnerID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "プロジェクトの作成に失敗しました"})
			log.Printf("プロジェクト作成エラー: %v", err)
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}

// handleDelete はプロジェクト削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		err = s.repo.Delete(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "プロジェクトの削除に失敗しました"})
			log.Printf("プロジェクト削除エラー: %v", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
