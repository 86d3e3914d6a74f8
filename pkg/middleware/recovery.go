package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時にスタックトレースをログに出力し、トレースID付きの
// 500エンベロープを返す。障害が呼び出し元へ未処理のまま伝播することはない。
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				traceID := GetTraceID(c)
				log.Error().
					Str("traceId", traceID).
					Str("component", "http").
					Interface("panic", r).
					Str("stack", string(debug.Stack())).
					Msgf("%s %s の処理中にパニックが発生", c.Request.Method, c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"ok":      false,
					"code":    http.StatusInternalServerError,
					"message": "internal error",
					"traceId": traceID,
				})
			}
		}()
		c.Next()
	}
}
