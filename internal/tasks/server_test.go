package tasks

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/taskhub/pkg/httpclient"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, notificationsURL string) *Server {
	t.Helper()
	s := &Server{
		router:           gin.New(),
		port:             "0",
		repo:             NewMemoryRepository(),
		notifyClient:     httpclient.NewWithTimeout(500 * time.Millisecond),
		notificationsURL: notificationsURL,
	}
	s.setupRoutes()
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// newNotifyBackend は通知リクエストを受け取るモックを返す。
// 受信したリクエストボディはチャネルから取得できる。
func newNotifyBackend(t *testing.T) (*httptest.Server, <-chan notifyRequest) {
	t.Helper()
	received := make(chan notifyRequest, 8)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notify" {
			http.NotFound(w, r)
			return
		}
		var req notifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		received <- req
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"sent"}`))
	}))
	t.Cleanup(backend.Close)
	return backend, received
}

// TestHandleCreate はタスク作成を検証する。
func TestHandleCreate(t *testing.T) {
	t.Parallel()

	t.Run("作成時の進行状態は常にtodoになること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		w := doRequest(t, s, http.MethodPost, "/tasks",
			strings.NewReader(`{"project_id":1,"title":"レビュー対応"}`))

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var task Task
		if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if task.ID != 1 {
			t.Errorf("id = %d, want 1", task.ID)
		}
		if task.Status != StatusTodo {
			t.Errorf("status = %q, want %q", task.Status, StatusTodo)
		}
		if task.AssigneeID != nil {
			t.Errorf("assignee_id = %v, want nil", task.AssigneeID)
		}
	})

	t.Run("担当者が指定されていれば通知が送信されること", func(t *testing.T) {
		t.Parallel()

		backend, received := newNotifyBackend(t)
		s := newTestServer(t, backend.URL)

		w := doRequest(t, s, http.MethodPost, "/tasks",
			strings.NewReader(`{"project_id":1,"title":"障害調査","assignee_id":7}`))
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
		}

		select {
		case req := <-received:
			if req.UserID != 7 {
				t.Errorf("user_id = %d, want 7", req.UserID)
			}
			if !strings.Contains(req.Message, "障害調査") {
				t.Errorf("message = %q, タスク名を含むこと", req.Message)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("通知が送信されなかった")
		}
	})

	t.Run("通知先が到達不能でも作成は成功すること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		w := doRequest(t, s, http.MethodPost, "/tasks",
			strings.NewReader(`{"project_id":1,"title":"T1","assignee_id":7}`))

		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
		}
	})

	t.Run("必須フィールドが欠けている場合は400を返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		w := doRequest(t, s, http.MethodPost, "/tasks",
			strings.NewReader(`{"title":"プロジェクトなし"}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestHandleUpdate はタスク部分更新を検証する。
func TestHandleUpdate(t *testing.T) {
	t.Parallel()

	t.Run("指定したフィールドだけが更新されること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		doRequest(t, s, http.MethodPost, "/tasks",
			strings.NewReader(`{"project_id":1,"title":"T1","description":"説明","assignee_id":3}`))

		w := doRequest(t, s, http.MethodPatch, "/tasks/1",
			strings.NewReader(`{"status":"in_progress"}`))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var task Task
		if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if task.Status != StatusInProgress {
			t.Errorf("status = %q, want %q", task.Status, StatusInProgress)
		}
		// 未指定のフィールドは保持される
		if task.Title != "T1" {
			t.Errorf("title = %q, want %q", task.Title, "T1")
		}
		if task.Description == nil || *task.Description != "説明" {
			t.Errorf("description = %v, want %q", task.Description, "説明")
		}
		if task.AssigneeID == nil || *task.AssigneeID != 3 {
			t.Errorf("assignee_id = %v, want 3", task.AssigneeID)
		}
	})

	t.Run("不正な進行状態は400を返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		doRequest(t, s, http.MethodPost, "/tasks",
			strings.NewReader(`{"project_id":1,"title":"T1"}`))

		w := doRequest(t, s, http.MethodPatch, "/tasks/1",
			strings.NewReader(`{"status":"blocked"}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("存在しないタスクは404を返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		w := doRequest(t, s, http.MethodPatch, "/tasks/999",
			strings.NewReader(`{"title":"新タイトル"}`))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestHandleListByProject はプロジェクト配下のタスク一覧取得を検証する。
func TestHandleListByProject(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "http://localhost:1")
	doRequest(t, s, http.MethodPost, "/tasks", strings.NewReader(`{"project_id":1,"title":"T1"}`))
	doRequest(t, s, http.MethodPost, "/tasks", strings.NewReader(`{"project_id":2,"title":"T2"}`))
	doRequest(t, s, http.MethodPost, "/tasks", strings.NewReader(`{"project_id":1,"title":"T3"}`))

	w := doRequest(t, s, http.MethodGet, "/projects/1/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var tasks []Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("件数 = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.ProjectID != 1 {
			t.Errorf("project_id = %d, want 1", task.ProjectID)
		}
	}
}

// TestHandleGetByID はタスク詳細取得を検証する。
func TestHandleGetByID(t *testing.T) {
	t.Parallel()

	t.Run("存在しないタスクは404を返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		w := doRequest(t, s, http.MethodGet, "/tasks/999", nil)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if body["error"] != "Task not found" {
			t.Errorf("error = %q, want %q", body["error"], "Task not found")
		}
	})

	t.Run("存在するタスクを返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, "http://localhost:1")
		doRequest(t, s, http.MethodPost, "/tasks", strings.NewReader(`{"project_id":1,"title":"T1"}`))

		w := doRequest(t, s, http.MethodGet, "/tasks/1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var task Task
		if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
			t.Fatalf("レスポンスのパースに失敗: %v", err)
		}
		if task.Title != "T1" {
			t.Errorf("title = %q, want %q", task.Title, "T1")
		}
	})
}

// TestHandleDelete はタスク削除を検証する。
func TestHandleDelete(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "http://localhost:1")
	doRequest(t, s, http.MethodPost, "/tasks", strings.NewReader(`{"project_id":1,"title":"T1"}`))

	w := doRequest(t, s, http.MethodDelete, "/tasks/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}

	got := doRequest(t, s, http.MethodGet, "/tasks/1", nil)
	if got.Code != http.StatusNotFound {
		t.Errorf("削除後のstatus = %d, want %d", got.Code, http.StatusNotFound)
	}
}
