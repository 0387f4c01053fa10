// タスクサービスのエントリポイント。
// タスクのCRUDと進行状態の管理を提供する。担当者が割り当てられた
// タスクの作成時には、notificationsサービスへベストエフォートで通知する。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskhub/internal/tasks"
	"github.com/nao1215/taskhub/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var cfg struct {
		Port string `koanf:"port"`
	}
	if err := config.Load(map[string]any{"port": "8004"}, &cfg); err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := tasks.NewServer(cfg.Port)
	if err != nil {
		log.Fatalf("タスクサーバーの初期化に失敗: %v", err)
	}

	log.Printf("タスクサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("タスクサービスの起動に失敗: %v", err)
	}
}
