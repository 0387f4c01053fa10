package users

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/nao1215/taskhub/pkg/config"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Server はユーザーサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// repo はユーザーレコードの保管層。
	repo Repository
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// serverConfig はユーザーサービス固有の設定。
type serverConfig struct {
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string `koanf:"users_db_path"`
}

// NewServer は新しいユーザーサーバーを生成する。
// SQLiteデータベースの初期化とスキーマ作成を行う。
func NewServer(port string) (*Server, error) {
	var cfg serverConfig
	if err := config.Load(map[string]any{
		"users_db_path": "users.db",
	}, &cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router: router,
		port:   port,
		repo:   NewSQLiteRepository(sqlDB),
		db:     sqlDB,
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
	users := s.router.Group("/users")
	{
		// ユーザー一覧取得
		users.GET("", s.handleList())
		// ユーザー詳細取得
		users.GET("/:id", s.handleGetByID())
		// ユーザー作成
		users.POST("", s.handleCreate())
		// ユーザー削除
		users.DELETE("/:id", s.handleDelete())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "users"})
	})
}

// createUserRequest はユーザー作成リクエストのJSON構造。
type createUserRequest struct {
	// Username はユーザー名。
	Username string `json:"username" binding:"required"`
	// Email はメールアドレス。
	Email string `json:"email" binding:"required,email"`
}

// handleList はユーザー一覧取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー一覧の取得に失敗しました"})
			log.Printf("ユーザー一覧取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// handleGetByID はユーザー詳細取得を処理するハンドラを返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		user, err := s.repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			log.Printf("ユーザー取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// handleCreate はユーザー作成を処理するハンドラを返す。
// ユーザー名またはメールアドレスが既存ユーザーと重複する場合は400を返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		user, err := s.repo.Create(c.Request.Context(), req.Username, req.Email)
		if errors.Is(err, ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with same username or email already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの作成に失敗しました"})
			log.Printf("ユーザー作成エラー: %v", err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// handleDelete はユーザー削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "IDが不正です"})
			return
		}

		err = s.repo.Delete(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの削除に失敗しました"})
			log.Printf("ユーザー削除エラー: %v", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
