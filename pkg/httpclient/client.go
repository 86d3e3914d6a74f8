package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// headerKeyTraceID はトレースIDを伝播するHTTPヘッダー名。
const headerKeyTraceID = "X-Trace-Id"

// Client は上流サイドカーへの転送に使用するHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サイドカーのベースURL。
	baseURL string
}

// New は新しいサイドカー転送用HTTPクライアントを生成する。
// baseURLには接続先サイドカーのベースURL（例: "http://localhost:4040"）を指定する。
// タイムアウトはルートごとに異なるため、クライアント全体には設定せず
// Doの呼び出しごとに指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// Response は上流から受け取ったHTTPレスポンス。
type Response struct {
	// StatusCode は上流が返したHTTPステータスコード。
	StatusCode int
	// Body は上流が返したレスポンスボディ。読み取りに失敗した場合はnil。
	Body []byte
}

// Do は指定パスへリクエストを転送し、タイムアウト予算内でレスポンスを待つ。
// 予算超過や接続失敗の場合はエラーを返す。上流がエラーステータスを
// 返した場合はエラーとせず、そのままResponseとして返す。
func (c *Client) Do(ctx context.Context, method, path, traceID string, body []byte, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if traceID != "" {
		req.Header.Set(headerKeyTraceID, traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("上流への接続がタイムアウト（予算 %v）: %w", timeout, err)
		}
		return nil, fmt.Errorf("上流への接続に失敗: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// ステータスコードは確定しているため、ボディ無しのレスポンスとして扱う
		respBody = nil
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}
