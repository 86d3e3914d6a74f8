package relay

import (
	"encoding/json"
	"net/http"
	"time"
)

// route は転送ルートの定義。受信パスは上流のパスにそのまま対応する。
type route struct {
	// name はメトリクスとログで使用するルート名。
	name string
	// method は受け付けるHTTPメソッド。
	method string
	// path は受信パスであり、上流での転送先パスでもある。
	path string
	// timeout は上流呼び出しのタイムアウト予算。
	timeout time.Duration
	// maxBodyBytes は受け付けるリクエストボディの上限バイト数。0は無制限。
	maxBodyBytes int64
	// failureStatus は上流がエラーステータスを返した場合に呼び出し元へ返すステータスコード。
	failureStatus int
}

// defaultRoutes は転送ゲートウェイが公開するルートの一覧を返す。
// タイムアウト予算は処理コストに応じたルートごとの固定値。
func defaultRoutes() []route {
	return []route{
		{
			name:          "health",
			method:        http.MethodGet,
			path:          "/health",
			timeout:       8 * time.Second,
			maxBodyBytes:  0,
			failureStatus: http.StatusServiceUnavailable,
		},
		{
			name:          "polish",
			method:        http.MethodPost,
			path:          "/polish",
			timeout:       30 * time.Second,
			maxBodyBytes:  5 << 20,
			failureStatus: http.StatusBadGateway,
		},
		{
			name:          "delegate",
			method:        http.MethodPost,
			path:          "/delegate",
			timeout:       90 * time.Second,
			maxBodyBytes:  10 << 20,
			failureStatus: http.StatusBadGateway,
		},
	}
}

// errorEnvelope は上流へ到達できなかった場合や転送前に拒否した場合に合成するレスポンス。
type errorEnvelope struct {
	// OK は常にfalse。
	OK bool `json:"ok"`
	// Code はレスポンスのHTTPステータスコード。
	Code int `json:"code"`
	// Message は失敗理由の文字列表現。呼び出し元が解析することはない。
	Message string `json:"message"`
	// TraceID はこの呼び出しのトレースID。
	TraceID string `json:"traceId"`
	// Hints はルート固有の静的な診断メッセージ。
	Hints []string `json:"hints,omitempty"`
}

// nonJSONEnvelope は上流が有効なJSON以外を返した場合に合成するレスポンス。
type nonJSONEnvelope struct {
	// OK は常にfalse。
	OK bool `json:"ok"`
	// Error は固定のエラーメッセージ。
	Error string `json:"error"`
	// Text は上流が返したボディのテキスト表現。
	Text string `json:"text"`
}

// normalizeBody は上流のレスポンスボディを正規化する。
// 有効なJSONはそのまま返し、それ以外は合成したエンベロープに包む。
// 同じ入力に対して常に同じバイト列を返す。
func normalizeBody(body []byte) []byte {
	if json.Valid(body) {
		return body
	}
	normalized, _ := json.Marshal(nonJSONEnvelope{
		OK:    false,
		Error: "sidecar returned non-JSON",
		Text:  string(body),
	})
	return normalized
}

// isSuccess はステータスコードが2xxかどうかを返す。
func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// outboundStatus は上流のステータスコードを呼び出し元へ返すステータスコードへ変換する。
// 2xxはそのまま通し、それ以外はルートごとの失敗ステータスに丸める。
func outboundStatus(rt route, upstreamStatus int) int {
	if isSuccess(upstreamStatus) {
		return upstreamStatus
	}
	return rt.failureStatus
}
