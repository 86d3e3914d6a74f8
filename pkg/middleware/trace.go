package middleware

import (
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TraceHeader はトレースIDを伝播するHTTPヘッダー名。
// ヘッダー名の照合は大文字小文字を区別しない。
const TraceHeader = "X-Trace-Id"

// contextKeyTraceID はGinコンテキストにトレースIDを格納するためのキー。
const contextKeyTraceID = "trace_id"

// Trace はリクエストごとにトレースIDを解決するGinミドルウェアを返す。
// 受信ヘッダーにX-Trace-Idがあればその値を検証せずそのまま使用し、
// なければ新しく生成する。解決したIDはエラー経路を含む全経路で
// レスポンスヘッダーに設定され、処理完了後にリクエストログを1件出力する。
func Trace(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = newTraceID()
		}
		c.Set(contextKeyTraceID, traceID)
		// ボディ書き込み前にヘッダーを確定させる
		c.Header(TraceHeader, traceID)

		start := time.Now()
		c.Next()

		log.Info().
			Str("traceId", traceID).
			Str("component", "http").
			Int("status", c.Writer.Status()).
			Int64("elapsedMs", time.Since(start).Milliseconds()).
			Msgf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

// newTraceID は新しいトレースIDを生成する。
// UUIDの16バイトを小文字16進数32文字として表現する。
func newTraceID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// GetTraceID はGinコンテキストからトレースIDを取得する。
// Traceミドルウェアが事前に適用されている必要がある。
func GetTraceID(c *gin.Context) string {
	v, _ := c.Get(contextKeyTraceID)
	if id, ok := v.(string); ok {
		return id
	}
	return ""
}
