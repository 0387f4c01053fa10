package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		router: gin.New(),
		port:   "0",
	}
	s.setupRoutes()
	return s
}

// TestHandleLogin はログイン処理を検証する。
func TestHandleLogin(t *testing.T) {
	t.Parallel()

	t.Run("ユーザー名からトークンが発行されること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		body := strings.NewReader(`{"username":"alice","password":"secret"}`)
		req := httptest.NewRequest(http.MethodPost, "/login", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var resp loginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if resp.AccessToken != "token_for_alice" {
			t.Errorf("access_token = %q, want %q", resp.AccessToken, "token_for_alice")
		}
		if resp.TokenType != "bearer" {
			t.Errorf("token_type = %q, want %q", resp.TokenType, "bearer")
		}
	})

	t.Run("必須フィールドが欠けている場合は400を返すこと", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			body string
		}{
			{name: "ユーザー名なし", body: `{"password":"secret"}`},
			{name: "パスワードなし", body: `{"username":"alice"}`},
			{name: "空ボディ", body: `{}`},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				s := newTestServer(t)
				req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
				w := httptest.NewRecorder()
				s.router.ServeHTTP(w, req)

				if w.Code != http.StatusBadRequest {
					t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
				}
			})
		}
	})
}

// TestHandleHealth はヘルスチェックを検証する。
func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status = %q, want "ok"`, body["status"])
	}
	if body["service"] != "auth" {
		t.Errorf(`service = %q, want "auth"`, body["service"])
	}
}
