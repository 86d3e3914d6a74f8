// Relayサービスのエントリポイント。
// 受信したHTTPリクエストを単一の上流サイドカーへ転送し、正規化した
// JSONレスポンスとトレースIDを呼び出し元へ返す転送ゲートウェイ。
package main

import (
	"log"
	"os"

	"github.com/nao1215/relay/internal/config"
	"github.com/nao1215/relay/internal/relay"
	"github.com/nao1215/relay/pkg/logging"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName,
		Version: cfg.BuildVersion,
	})

	server, err := relay.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Relayサーバーの初期化に失敗")
	}

	logger.Info().
		Str("port", cfg.Port).
		Str("sidecarUrl", cfg.SidecarURL).
		Msg("Relayサービスを起動します")
	if err := server.Run(); err != nil {
		logger.Fatal().Err(err).Msg("Relayサービスの起動に失敗")
	}
}
