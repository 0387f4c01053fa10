package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/taskhub/pkg/middleware"
)

// statusOK と statusUnavailable はヘルスサマリーの状態文字列。
const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

// summaryResponse は /summary のレスポンス構造。
// 各リソースのスロットは「件数あり」か「エラー印あり」のどちらか一方となる。
// 未設定のフィールドもnullとして必ず出力する。
type summaryResponse struct {
	// CurrentUser はトークンから取り出した呼び出し元のユーザー名。
	CurrentUser string `json:"current_user"`
	// UsersCount はユーザー数。取得できなかった場合はnull。
	UsersCount *int `json:"users_count"`
	// ProjectsCount はプロジェクト数。取得できなかった場合はnull。
	ProjectsCount *int `json:"projects_count"`
	// TasksCount はタスク数。取得できなかった場合はnull。
	TasksCount *int `json:"tasks_count"`
	// UsersError はusersサービスが取得できなかった場合のエラー印。
	UsersError *string `json:"users_error"`
	// ProjectsError はprojectsサービスが取得できなかった場合のエラー印。
	ProjectsError *string `json:"projects_error"`
	// TasksError はtasksサービスが取得できなかった場合のエラー印。
	TasksError *string `json:"tasks_error"`
}

// countSlot はコレクション1つ分の集約結果。
// countとreasonはどちらか一方のみが設定される。
type countSlot struct {
	// count は取得できたコレクションの件数。
	count *int
	// reason は取得できなかった場合のエラー印。
	reason *string
}

// handleHealth は全バックエンドのヘルスチェックを集約するハンドラを返す。
// 各サービスへの呼び出しは並行に行われ、全体の所要時間は最も遅い
// 1呼び出しのタイムアウトで抑えられる。gateway自身のエントリは常に"ok"。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses := make(map[string]string, len(serviceNames)+1)
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for name, baseURL := range s.registry.All() {
			name, baseURL := name, baseURL
			wg.Add(1)
			go func() {
				defer wg.Done()
				status := statusUnavailable
				if _, ok := s.client.Get(c.Request.Context(), baseURL+"/health"); ok {
					status = statusOK
				}
				mu.Lock()
				statuses[string(name)] = status
				mu.Unlock()
			}()
		}
		wg.Wait()

		statuses["gateway"] = statusOK
		c.JSON(http.StatusOK, statuses)
	}
}

// handleSummary は主要エンティティの件数サマリーを返すハンドラを返す。
// users/projects/tasksの3サービスへの呼び出しは並行かつ独立で、
// 1つの失敗が他のリソースの結果や全体の成功ステータスに影響しない。
func (s *Server) handleSummary(usersURL, projectsURL, tasksURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users, projects, tasks countSlot
		var wg sync.WaitGroup
		for _, target := range []struct {
			resource string
			url      string
			out      *countSlot
		}{
			{resource: "users", url: usersURL + "/users", out: &users},
			{resource: "projects", url: projectsURL + "/projects", out: &projects},
			{resource: "tasks", url: tasksURL + "/tasks", out: &tasks},
		} {
			target := target
			wg.Add(1)
			go func() {
				defer wg.Done()
				*target.out = s.fetchCount(c.Request.Context(), target.resource, target.url)
			}()
		}
		wg.Wait()

		c.JSON(http.StatusOK, summaryResponse{
			CurrentUser:   middleware.GetUsername(c),
			UsersCount:    users.count,
			ProjectsCount: projects.count,
			TasksCount:    tasks.count,
			UsersError:    users.reason,
			ProjectsError: projects.reason,
			TasksError:    tasks.reason,
		})
	}
}

// fetchCount はコレクションエンドポイントを呼び出して件数を取得する。
// 取得できない場合は "<resource>_service_unavailable" のエラー印を設定する。
func (s *Server) fetchCount(ctx context.Context, resource, url string) countSlot {
	unavailable := func() countSlot {
		reason := resource + "_service_unavailable"
		return countSlot{reason: &reason}
	}

	body, ok := s.client.Get(ctx, url)
	if !ok {
		return unavailable()
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		log.Printf("コレクションレスポンスが配列でない: url=%s, error=%v", url, err)
		return unavailable()
	}

	count := len(items)
	return countSlot{count: &count}
}

// handleMe は呼び出し元ユーザーのプロフィールを返すハンドラを返す。
// usersサービスの全コレクションを取得してユーザー名で線形探索する。
// ユーザー名指定の取得エンドポイントはバックエンド契約に存在しない。
func (s *Server) handleMe(usersURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := middleware.GetUsername(c)

		body, ok := s.client.Get(c.Request.Context(), usersURL+"/users")
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Users service unavailable"})
			return
		}

		var users []json.RawMessage
		if err := json.Unmarshal(body, &users); err != nil {
			log.Printf("usersレスポンスが配列でない: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Users service unavailable"})
			return
		}

		for _, raw := range users {
			var probe struct {
				Username string `json:"username"`
			}
			if err := json.Unmarshal(raw, &probe); err != nil {
				continue
			}
			if probe.Username == username {
				c.Data(http.StatusOK, "application/json", raw)
				return
			}
		}

		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("User '%s' not found in users service", username),
		})
	}
}
