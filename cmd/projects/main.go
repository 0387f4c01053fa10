// プロジェクトサービスのエントリポイント。
// プロジェクトのCRUDをインメモリのリポジトリで提供する。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskhub/internal/projects"
	"github.com/nao1215/taskhub/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var cfg struct {
		Port string `koanf:"port"`
	}
	if err := config.Load(map[string]any{"port": "8003"}, &cfg); err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server := projects.NewServer(cfg.Port)
	log.Printf("プロジェクトサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("プロジェクトサービスの起動に失敗: %v", err)
	}
}
