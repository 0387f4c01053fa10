// 認証サービスのエントリポイント。
// 任意の資格情報を受理し、ユーザー名のみに依存する構造的なBearerトークンを
// 発行する。検証・署名・失効の仕組みは持たない簡易実装。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskhub/internal/auth"
	"github.com/nao1215/taskhub/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var cfg struct {
		Port string `koanf:"port"`
	}
	if err := config.Load(map[string]any{"port": "8001"}, &cfg); err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server := auth.NewServer(cfg.Port)
	log.Printf("認証サービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("認証サービスの起動に失敗: %v", err)
	}
}
