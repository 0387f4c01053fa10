package gateway

import "testing"

// TestNewRegistry はNewRegistry関数を検証する。
// 環境変数を操作するためt.Parallelは使用しない。
func TestNewRegistry(t *testing.T) {
	t.Run("環境変数が未設定の場合はデフォルトURLで構築されること", func(t *testing.T) {
		t.Setenv("AUTH_SERVICE_URL", "")

		registry, err := NewRegistry()
		if err != nil {
			t.Fatalf("NewRegistry()でエラーが発生: %v", err)
		}

		url, err := registry.Resolve(ServiceAuth)
		if err != nil {
			t.Fatalf("Resolve()でエラーが発生: %v", err)
		}
		if url != "http://localhost:8001" {
			t.Errorf("auth URL = %q, want %q", url, "http://localhost:8001")
		}
	})

	t.Run("環境変数がデフォルトURLを上書きすること", func(t *testing.T) {
		t.Setenv("USERS_SERVICE_URL", "http://users.internal:9000")

		registry, err := NewRegistry()
		if err != nil {
			t.Fatalf("NewRegistry()でエラーが発生: %v", err)
		}

		url, err := registry.Resolve(ServiceUsers)
		if err != nil {
			t.Fatalf("Resolve()でエラーが発生: %v", err)
		}
		if url != "http://users.internal:9000" {
			t.Errorf("users URL = %q, want %q", url, "http://users.internal:9000")
		}
	})

	t.Run("全サービス名がエントリを持つこと", func(t *testing.T) {
		registry, err := NewRegistry()
		if err != nil {
			t.Fatalf("NewRegistry()でエラーが発生: %v", err)
		}

		for _, name := range serviceNames {
			if _, err := registry.Resolve(name); err != nil {
				t.Errorf("Resolve(%s)でエラーが発生: %v", name, err)
			}
		}
	})
}

// TestRegistryResolve はResolve関数を検証する。
func TestRegistryResolve(t *testing.T) {
	t.Run("未知のサービス名はエラーを返すこと", func(t *testing.T) {
		registry := &Registry{urls: map[ServiceName]string{ServiceAuth: "http://localhost:8001"}}

		if _, err := registry.Resolve(ServiceName("unknown")); err == nil {
			t.Fatal("Resolve()がエラーを返さなかった")
		}
	})
}

// TestRegistryAll はAll関数を検証する。
func TestRegistryAll(t *testing.T) {
	t.Run("返されたマップの変更が内部状態に影響しないこと", func(t *testing.T) {
		registry := &Registry{urls: map[ServiceName]string{ServiceAuth: "http://localhost:8001"}}

		all := registry.All()
		all[ServiceAuth] = "http://tampered.example.com"

		url, err := registry.Resolve(ServiceAuth)
		if err != nil {
			t.Fatalf("Resolve()でエラーが発生: %v", err)
		}
		if url != "http://localhost:8001" {
			t.Errorf("auth URL = %q, want %q", url, "http://localhost:8001")
		}
	})
}
