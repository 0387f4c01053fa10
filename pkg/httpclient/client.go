package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultTimeout は外部サービス呼び出しのタイムアウト。
// 集約系エンドポイントの全体レイテンシはこの値で抑えられる。
const DefaultTimeout = 2 * time.Second

// ackBody はボディがJSONとしてパースできない2xxレスポンスの代替ボディ。
var ackBody = json.RawMessage(`{"status":"ok"}`)

// Client はサービス間通信用のHTTPクライアント。
// 並行利用に対して安全であり、全サービスで共有できる。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
}

// New はデフォルトタイムアウトのHTTPクライアントを生成する。
func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout は指定タイムアウトのHTTPクライアントを生成する。
// テストでタイムアウトを短縮する場合に使用する。
func NewWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get は指定URLにGETリクエストを送信し、JSONボディを返す。
// 接続エラー・タイムアウト・非2xxステータス・JSONでないボディは
// すべて「値なし」(ok=false) に畳み込む。呼び出し元は失敗原因を
// 区別できず、欠落のみを観測する。原因はログにのみ残す。
func (c *Client) Get(ctx context.Context, url string) (json.RawMessage, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("GETリクエストの作成に失敗: url=%s, error=%v", url, err)
		return nil, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("GETリクエストの送信に失敗: url=%s, error=%v", url, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("GETリクエストがエラーステータスを返却: url=%s, status=%d", url, resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("GETレスポンスの読み取りに失敗: url=%s, error=%v", url, err)
		return nil, false
	}
	if !json.Valid(body) {
		log.Printf("GETレスポンスが不正なJSON: url=%s", url)
		return nil, false
	}
	return json.RawMessage(body), true
}

// ForwardError は書き込み転送の失敗を表す。
// 転送先がエラーステータスを返した場合はそのステータスとボディを
// そのまま保持する。トランスポートレベルの失敗では502となる。
type ForwardError struct {
	// StatusCode は呼び出し元へ中継すべきHTTPステータスコード。
	StatusCode int
	// Detail はエラーの詳細。転送先のレスポンスボディをそのまま保持する。
	Detail string
}

// Error はerrorインターフェースを実装する。
func (e *ForwardError) Error() string {
	return fmt.Sprintf("forward error: status=%d, detail=%s", e.StatusCode, e.Detail)
}

// Post は指定URLにPOSTリクエストを送信し、ボディと成功ステータスを返す。
//   - 2xx: JSONボディとステータスコードを返す。ボディがJSONとして
//     パースできない場合は {"status":"ok"} をボディとする。
//   - 非2xx: 転送先のステータスとボディを保持したForwardErrorを返す。
//   - ネットワーク/タイムアウト失敗: URLを含む502のForwardErrorを返す。
func (c *Client) Post(ctx context.Context, url string, body io.Reader) (json.RawMessage, int, *ForwardError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, 0, badGateway(url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, badGateway(url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, badGateway(url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, &ForwardError{
			StatusCode: resp.StatusCode,
			Detail:     string(respBody),
		}
	}

	if !json.Valid(respBody) {
		return ackBody, resp.StatusCode, nil
	}
	return json.RawMessage(respBody), resp.StatusCode, nil
}

// PostJSON はペイロードをJSONにシリアライズしてPostを実行する。
// tasksやcommentsサービスからの通知送信など、構造体ベースの呼び出しに使用する。
func (c *Client) PostJSON(ctx context.Context, url string, payload any) (json.RawMessage, *ForwardError) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, badGateway(url, err)
	}
	body, _, ferr := c.Post(ctx, url, bytes.NewReader(data))
	return body, ferr
}

// badGateway はトランスポートレベルの失敗を502のForwardErrorに変換する。
// 上流のステータスが存在しないため、URLを含む説明文のみを保持する。
func badGateway(url string, err error) *ForwardError {
	return &ForwardError{
		StatusCode: http.StatusBadGateway,
		Detail:     fmt.Sprintf("Error calling %s: %v", url, err),
	}
}
