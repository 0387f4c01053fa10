// 通知サービスのエントリポイント。
// 他サービスからの通知を受信してログ出力し、履歴として保持する。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskhub/internal/notifications"
	"github.com/nao1215/taskhub/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var cfg struct {
		Port string `koanf:"port"`
	}
	if err := config.Load(map[string]any{"port": "8006"}, &cfg); err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server := notifications.NewServer(cfg.Port)
	log.Printf("通知サービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("通知サービスの起動に失敗: %v", err)
	}
}
