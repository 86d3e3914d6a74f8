package relay

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nao1215/relay/internal/config"
	"github.com/nao1215/relay/pkg/httpclient"
	"github.com/nao1215/relay/pkg/middleware"
)

// Server は転送ゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// client は上流サイドカーへの転送に使用するHTTPクライアント。
	client *httpclient.Client
	// sidecarURL は転送先サイドカーのベースURL。
	sidecarURL string
	// routes は公開する転送ルートの一覧。
	routes []route
	// log は構造化ログの出力先。
	log zerolog.Logger
}

// NewServer は新しいRelayサーバーを生成する。
// 転送先のサイドカーURLは起動時に検証し、以降は変更されない。
func NewServer(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	parsed, err := url.Parse(cfg.SidecarURL)
	if err != nil {
		return nil, fmt.Errorf("サイドカーURLの解析に失敗: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("サイドカーURLが不正: %q", cfg.SidecarURL)
	}

	router := gin.New()
	router.Use(middleware.Trace(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.Origins()))

	s := &Server{
		router:     router,
		port:       cfg.Port,
		client:     httpclient.New(cfg.SidecarURL),
		sidecarURL: cfg.SidecarURL,
		routes:     defaultRoutes(),
		log:        log,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes は転送ルートと運用エンドポイントを設定する。
func (s *Server) setupRoutes() {
	for _, rt := range s.routes {
		s.router.Handle(rt.method, rt.path, s.handleForward(rt))
	}

	// Prometheusメトリクス
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// handleForward は上流サイドカーへリクエストを転送するハンドラを返す。
// 処理は受信 → トレースID解決 → ボディサイズ検査 → タイムアウト付き転送 →
// 正規化 → 応答、の一方向で、リトライは行わない。
func (s *Server) handleForward(rt route) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := middleware.GetTraceID(c)

		body, ok := s.readBody(c, rt)
		if !ok {
			return
		}

		start := time.Now()
		resp, err := s.client.Do(c.Request.Context(), rt.method, rt.path, traceID, body, rt.timeout)
		upstreamDuration.WithLabelValues(rt.name).Observe(time.Since(start).Seconds())
		if err != nil {
			upstreamRequests.WithLabelValues(rt.name, outcomeTransportError).Inc()
			s.log.Error().
				Err(err).
				Str("traceId", traceID).
				Str("component", "relay").
				Str("route", rt.name).
				Msg("上流への転送に失敗")
			c.JSON(http.StatusGatewayTimeout, errorEnvelope{
				OK:      false,
				Code:    http.StatusGatewayTimeout,
				Message: err.Error(),
				TraceID: traceID,
				Hints:   s.hints(rt),
			})
			return
		}

		outcome := outcomeSuccess
		if !isSuccess(resp.StatusCode) {
			outcome = outcomeUpstreamError
		}
		upstreamRequests.WithLabelValues(rt.name, outcome).Inc()

		c.Data(outboundStatus(rt, resp.StatusCode), "application/json", normalizeBody(resp.Body))
	}
}

// readBody はリクエストボディをルートの上限バイト数まで読み取る。
// 上限超過または読み取り失敗の場合はエラーレスポンスを書き込み、falseを返す。
func (s *Server) readBody(c *gin.Context, rt route) ([]byte, bool) {
	if rt.maxBodyBytes <= 0 {
		return nil, true
	}

	if c.Request.ContentLength > rt.maxBodyBytes {
		s.reject(c, rt, http.StatusRequestEntityTooLarge, "request body too large", "body_too_large")
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, rt.maxBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.reject(c, rt, http.StatusRequestEntityTooLarge, "request body too large", "body_too_large")
			return nil, false
		}
		s.reject(c, rt, http.StatusBadRequest, "failed to read request body", "body_read_error")
		return nil, false
	}
	return body, true
}

// reject は上流へ転送せずにエラーレスポンスを返す共通処理。
func (s *Server) reject(c *gin.Context, rt route, status int, message, reason string) {
	rejectedRequests.WithLabelValues(rt.name, reason).Inc()
	s.log.Warn().
		Str("traceId", middleware.GetTraceID(c)).
		Str("component", "relay").
		Str("route", rt.name).
		Str("reason", reason).
		Msg("転送前にリクエストを拒否")
	c.JSON(status, errorEnvelope{
		OK:      false,
		Code:    status,
		Message: message,
		TraceID: middleware.GetTraceID(c),
	})
}

// hints は転送失敗時にレスポンスへ添えるルート固有の診断メッセージを返す。
func (s *Server) hints(rt route) []string {
	return []string{
		fmt.Sprintf("upstream %s %s did not respond", rt.method, rt.path),
		fmt.Sprintf("check that the sidecar is reachable at %s", s.sidecarURL),
	}
}
