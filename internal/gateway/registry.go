package gateway

import (
	"fmt"
	"maps"

	"github.com/nao1215/taskhub/pkg/config"
)

// ServiceName はバックエンドサービスの論理名。
type ServiceName string

// 登録対象のサービス名。プロセス生存中は不変。
const (
	// ServiceAuth は認証サービス。
	ServiceAuth ServiceName = "auth"
	// ServiceUsers はユーザーサービス。
	ServiceUsers ServiceName = "users"
	// ServiceProjects はプロジェクトサービス。
	ServiceProjects ServiceName = "projects"
	// ServiceTasks はタスクサービス。
	ServiceTasks ServiceName = "tasks"
	// ServiceComments はコメントサービス。
	ServiceComments ServiceName = "comments"
	// ServiceNotifications は通知サービス。
	ServiceNotifications ServiceName = "notifications"
)

// serviceNames は登録対象の全サービス名。
var serviceNames = []ServiceName{
	ServiceAuth,
	ServiceUsers,
	ServiceProjects,
	ServiceTasks,
	ServiceComments,
	ServiceNotifications,
}

// registryConfig は環境変数から読み込むサービスURL設定。
// docker-compose環境では各サービスのコンテナ名を指すURLが設定される。
type registryConfig struct {
	AuthServiceURL          string `koanf:"auth_service_url"`
	UsersServiceURL         string `koanf:"users_service_url"`
	ProjectsServiceURL      string `koanf:"projects_service_url"`
	TasksServiceURL         string `koanf:"tasks_service_url"`
	CommentsServiceURL      string `koanf:"comments_service_url"`
	NotificationsServiceURL string `koanf:"notifications_service_url"`
}

// Registry はサービス名からベースURLへの静的な解決テーブル。
// 起動時に一度だけ構築され、以降は読み取り専用。ロックなしで
// 並行リクエストから参照できる。
type Registry struct {
	urls map[ServiceName]string
}

// NewRegistry は環境変数からRegistryを構築する。
// 各サービス名には固定のデフォルトURLがあり、環境変数未設定でも動作する。
// エントリが欠けた状態は設定不備であり、起動時エラーとして扱う。
func NewRegistry() (*Registry, error) {
	var cfg registryConfig
	if err := config.Load(map[string]any{
		"auth_service_url":          "http://localhost:8001",
		"users_service_url":         "http://localhost:8002",
		"projects_service_url":      "http://localhost:8003",
		"tasks_service_url":         "http://localhost:8004",
		"comments_service_url":      "http://localhost:8005",
		"notifications_service_url": "http://localhost:8006",
	}, &cfg); err != nil {
		return nil, fmt.Errorf("サービスURL設定の読み込みに失敗: %w", err)
	}

	urls := map[ServiceName]string{
		ServiceAuth:          cfg.AuthServiceURL,
		ServiceUsers:         cfg.UsersServiceURL,
		ServiceProjects:      cfg.ProjectsServiceURL,
		ServiceTasks:         cfg.TasksServiceURL,
		ServiceComments:      cfg.CommentsServiceURL,
		ServiceNotifications: cfg.NotificationsServiceURL,
	}
	for _, name := range serviceNames {
		if urls[name] == "" {
			return nil, fmt.Errorf("サービス %s のURLが未設定", name)
		}
	}
	return &Registry{urls: urls}, nil
}

// Resolve はサービス名をベースURLへ解決する。
// 登録済みの全サービス名に対して全域的であり、未知の名前は
// 起動時の設定不備としてのみ発生しうる。
func (r *Registry) Resolve(name ServiceName) (string, error) {
	url, ok := r.urls[name]
	if !ok {
		return "", fmt.Errorf("未知のサービス名: %s", name)
	}
	return url, nil
}

// All は登録済みの全エントリのコピーを返す。ヘルスチェックの走査用。
func (r *Registry) All() map[ServiceName]string {
	return maps.Clone(r.urls)
}
