// コメントサービスのエントリポイント。
// タスク配下のコメントの一覧取得と作成を提供する。コメント作成時には
// notificationsサービスへベストエフォートで通知する。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskhub/internal/comments"
	"github.com/nao1215/taskhub/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var cfg struct {
		Port string `koanf:"port"`
	}
	if err := config.Load(map[string]any{"port": "8005"}, &cfg); err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := comments.NewServer(cfg.Port)
	if err != nil {
		log.Fatalf("コメントサーバーの初期化に失敗: %v", err)
	}

	log.Printf("コメントサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("コメントサービスの起動に失敗: %v", err)
	}
}
