package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Load は環境変数とデフォルト値から設定を構築し、outにデシリアライズする。
// 環境変数のキーは小文字化して扱う（例: USERS_SERVICE_URL → users_service_url）。
// 空文字列が設定された環境変数は未設定として扱い、デフォルト値を採用する。
func Load(defaults map[string]any, out any) error {
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			// 空の環境変数は未設定扱い
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil); err != nil {
		return fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return fmt.Errorf("デフォルト値の設定に失敗 (%s): %w", key, err)
			}
		}
	}

	if err := k.Unmarshal("", out); err != nil {
		return fmt.Errorf("設定のデシリアライズに失敗: %w", err)
	}
	return nil
}
