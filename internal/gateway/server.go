package gateway

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/taskhub/pkg/config"
	"github.com/nao1215/taskhub/pkg/httpclient"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// registry はサービス名からベースURLへの解決テーブル。
	registry *Registry
	// client はバックエンドサービスへのHTTPクライアント。
	client *httpclient.Client
}

// serverConfig はgatewayサービス固有の設定。
type serverConfig struct {
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string `koanf:"frontend_url"`
}

// NewServer は新しいGatewayサーバーを生成する。
// サービスレジストリの構築に失敗した場合は起動時エラーとして返す。
func NewServer(port string) (*Server, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("サービスレジストリの構築に失敗: %w", err)
	}

	var cfg serverConfig
	if err := config.Load(map[string]any{
		"frontend_url": "http://localhost:3000",
	}, &cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))

	s := &Server{
		router:   router,
		port:     port,
		registry: registry,
		client:   httpclient.New(),
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
// バックエンドのベースURLは起動時に一度だけ解決し、以降は不変。
func (s *Server) setupRoutes() error {
	usersURL, err := s.registry.Resolve(ServiceUsers)
	if err != nil {
		return err
	}
	projectsURL, err := s.registry.Resolve(ServiceProjects)
	if err != nil {
		return err
	}
	tasksURL, err := s.registry.Resolve(ServiceTasks)
	if err != nil {
		return err
	}
	commentsURL, err := s.registry.Resolve(ServiceComments)
	if err != nil {
		return err
	}

	// 全バックエンドのヘルスチェック集約（認証不要）
	s.router.GET("/health", s.handleHealth())

	// 認証必須のエンドポイント
	protected := s.router.Group("/")
	protected.Use(middleware.BearerAuth())
	{
		// 集約系
		protected.GET("/summary", s.handleSummary(usersURL, projectsURL, tasksURL))
		protected.GET("/me", s.handleMe(usersURL))

		// 書き込み転送（プロキシ）
		protected.POST("/users", s.handleForward(usersURL, "/users"))
		protected.POST("/projects", s.handleForward(projectsURL, "/projects"))
		protected.POST("/tasks", s.handleForward(tasksURL, "/tasks"))
		protected.POST("/tasks/:task_id/comments", s.handleForwardComment(commentsURL))
	}

	return nil
}

// handleForward は固定パスへの書き込み転送ハンドラを返す。
func (s *Server) handleForward(baseURL, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.doForward(c, baseURL+path)
	}
}

// handleForwardComment はタスク配下へのコメント作成を転送するハンドラを返す。
// パス中のタスクIDをcommentsサービスのURLに埋め込む。
func (s *Server) handleForwardComment(commentsURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.doForward(c, fmt.Sprintf("%s/tasks/%s/comments", commentsURL, c.Param("task_id")))
	}
}

// doForward は呼び出し元のリクエストボディを1つのバックエンドへ転送し、
// 結果またはエラーを意味を変えずに中継する。リトライは行わない。
// 転送先のエラーステータスとボディはそのまま呼び出し元へ伝わる。
func (s *Server) doForward(c *gin.Context, url string) {
	body, status, ferr := s.client.Post(c.Request.Context(), url, c.Request.Body)
	if ferr != nil {
		c.JSON(ferr.StatusCode, gin.H{"error": ferr.Detail})
		return
	}
	c.Data(status, "application/json", body)
}
