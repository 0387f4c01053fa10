package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("ヘッダー未指定の場合は新しいUUIDを採番すること", func(t *testing.T) {
		t.Parallel()

		var captured string
		router := gin.New()
		router.GET("/", RequestID(), func(c *gin.Context) {
			captured = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if _, err := uuid.Parse(captured); err != nil {
			t.Errorf("リクエストIDがUUIDでない: %q", captured)
		}
		if got := w.Header().Get("X-Request-ID"); got != captured {
			t.Errorf("X-Request-ID = %q, want %q", got, captured)
		}
	})

	t.Run("呼び出し元が指定したIDを引き継ぐこと", func(t *testing.T) {
		t.Parallel()

		var captured string
		router := gin.New()
		router.GET("/", RequestID(), func(c *gin.Context) {
			captured = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		router.ServeHTTP(w, req)

		if captured != "req-123" {
			t.Errorf("リクエストID = %q, want %q", captured, "req-123")
		}
	})
}
