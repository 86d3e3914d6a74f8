// Package config はRelayサービスの設定の読み込みを提供する。
// YAMLファイルを任意で読み込み、同名の環境変数があれば値を上書きする。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config はRelayサービスの設定。
type Config struct {
	// ServiceName はログに付与するサービス名。
	ServiceName string `koanf:"service_name"`
	// BuildVersion はログに付与するビルドバージョン。
	BuildVersion string `koanf:"build_version"`
	// Port はHTTPサーバーの待ち受けポート。
	Port string `koanf:"port"`
	// SidecarURL は転送先サイドカーのベースURL。
	SidecarURL string `koanf:"sidecar_url"`
	// AllowedOrigins はCORSで許可するオリジンのカンマ区切りリスト。
	AllowedOrigins string `koanf:"allowed_origins"`
	// LogLevel はログ出力の最小レベル。
	LogLevel string `koanf:"log_level"`
}

// Load は設定を読み込む。pathのYAMLファイルが存在すれば読み込み、
// 同名の環境変数（例: SIDECAR_URL）があれば値を上書きする。
// ファイルが存在しない場合はデフォルト値と環境変数のみで構成する。
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServiceName:    "relay",
		BuildVersion:   "dev",
		Port:           "8080",
		SidecarURL:     "http://localhost:4040",
		AllowedOrigins: "*",
		LogLevel:       "info",
	}

	k := koanf.New(".")

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("設定のデシリアライズに失敗: %w", err)
	}
	return cfg, nil
}

// Origins はAllowedOriginsをオリジンのスライスに分割して返す。
// 空要素と前後の空白は取り除く。
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
