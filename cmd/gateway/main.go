// API Gatewayサービスのエントリポイント。
// Bearerトークンによる認証、バックエンドへの並行集約呼び出し、
// 書き込みリクエストの転送を担当する。外部からアクセス可能な唯一の
// サービスであり、セキュリティの境界線となる。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskhub/internal/gateway"
	"github.com/nao1215/taskhub/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var cfg struct {
		Port string `koanf:"port"`
	}
	if err := config.Load(map[string]any{"port": "8000"}, &cfg); err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := gateway.NewServer(cfg.Port)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
