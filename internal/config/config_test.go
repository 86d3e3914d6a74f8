package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// configEnvKeys は設定が参照する環境変数の一覧。
var configEnvKeys = []string{
	"SERVICE_NAME",
	"BUILD_VERSION",
	"PORT",
	"SIDECAR_URL",
	"ALLOWED_ORIGINS",
	"LOG_LEVEL",
}

// unsetConfigEnv はテスト中だけ設定関連の環境変数を取り除く。
// t.Setenvで元の値の復元を登録するため、t.Parallelとは併用できない。
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// writeConfigFile は一時ディレクトリにYAML設定ファイルを書き込み、そのパスを返す。
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("設定ファイルの書き込みに失敗: %v", err)
	}
	return path
}

// TestLoad はLoad関数を検証する。
func TestLoad(t *testing.T) {
	t.Run("ファイルが無い場合はデフォルト値になること", func(t *testing.T) {
		unsetConfigEnv(t)

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load()がエラーを返した: %v", err)
		}

		want := &Config{
			ServiceName:    "relay",
			BuildVersion:   "dev",
			Port:           "8080",
			SidecarURL:     "http://localhost:4040",
			AllowedOrigins: "*",
			LogLevel:       "info",
		}
		if !reflect.DeepEqual(cfg, want) {
			t.Errorf("Config = %+v, want %+v", cfg, want)
		}
	})

	t.Run("YAMLファイルの値が読み込まれること", func(t *testing.T) {
		unsetConfigEnv(t)

		path := writeConfigFile(t, `
service_name: custom-relay
build_version: v1.2.3
port: "9090"
sidecar_url: http://sidecar:4040
allowed_origins: "http://localhost:3000,https://example.com"
log_level: debug
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load()がエラーを返した: %v", err)
		}

		if cfg.ServiceName != "custom-relay" {
			t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "custom-relay")
		}
		if cfg.Port != "9090" {
			t.Errorf("Port = %q, want %q", cfg.Port, "9090")
		}
		if cfg.SidecarURL != "http://sidecar:4040" {
			t.Errorf("SidecarURL = %q, want %q", cfg.SidecarURL, "http://sidecar:4040")
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
		}
	})

	t.Run("一部のキーだけYAMLにある場合は残りがデフォルトのままなこと", func(t *testing.T) {
		unsetConfigEnv(t)

		path := writeConfigFile(t, "sidecar_url: http://sidecar:5050\n")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load()がエラーを返した: %v", err)
		}

		if cfg.SidecarURL != "http://sidecar:5050" {
			t.Errorf("SidecarURL = %q, want %q", cfg.SidecarURL, "http://sidecar:5050")
		}
		if cfg.Port != "8080" {
			t.Errorf("Port = %q, want %q", cfg.Port, "8080")
		}
		if cfg.ServiceName != "relay" {
			t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "relay")
		}
	})

	t.Run("環境変数がYAMLの値を上書きすること", func(t *testing.T) {
		unsetConfigEnv(t)

		path := writeConfigFile(t, `
sidecar_url: http://from-yaml:4040
port: "9090"
`)
		t.Setenv("SIDECAR_URL", "http://from-env:4040")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load()がエラーを返した: %v", err)
		}

		if cfg.SidecarURL != "http://from-env:4040" {
			t.Errorf("SidecarURL = %q, want %q", cfg.SidecarURL, "http://from-env:4040")
		}
		if cfg.Port != "9090" {
			t.Errorf("Port = %q, want %q", cfg.Port, "9090")
		}
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
		}
	})

	t.Run("環境変数のみでも設定できること", func(t *testing.T) {
		unsetConfigEnv(t)

		t.Setenv("PORT", "3000")
		t.Setenv("SERVICE_NAME", "relay-staging")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load()がエラーを返した: %v", err)
		}

		if cfg.Port != "3000" {
			t.Errorf("Port = %q, want %q", cfg.Port, "3000")
		}
		if cfg.ServiceName != "relay-staging" {
			t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "relay-staging")
		}
	})

	t.Run("不正なYAMLの場合はエラーになること", func(t *testing.T) {
		unsetConfigEnv(t)

		path := writeConfigFile(t, "port: [unclosed\n")

		if _, err := Load(path); err == nil {
			t.Fatal("不正なYAMLでエラーが返るべき")
		} else if !strings.Contains(err.Error(), "解析に失敗") {
			t.Errorf("エラーメッセージが想定と異なる: %v", err)
		}
	})
}

// TestOrigins はOriginsメソッドを検証する。
func TestOrigins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		allowedOrigins string
		want           []string
	}{
		{
			name:           "カンマ区切りの値が分割されること",
			allowedOrigins: "http://localhost:3000,https://example.com",
			want:           []string{"http://localhost:3000", "https://example.com"},
		},
		{
			name:           "ワイルドカードはそのまま返ること",
			allowedOrigins: "*",
			want:           []string{"*"},
		},
		{
			name:           "要素の前後の空白が取り除かれること",
			allowedOrigins: " http://a.example.com , http://b.example.com ",
			want:           []string{"http://a.example.com", "http://b.example.com"},
		},
		{
			name:           "空要素が取り除かれること",
			allowedOrigins: "http://a.example.com,,http://b.example.com,",
			want:           []string{"http://a.example.com", "http://b.example.com"},
		},
		{
			name:           "空文字列の場合は空になること",
			allowedOrigins: "",
			want:           []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{AllowedOrigins: tt.allowedOrigins}
			if got := cfg.Origins(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Origins() = %v, want %v", got, tt.want)
			}
		})
	}
}
