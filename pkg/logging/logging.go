// Package logging はJSON形式の構造化ログを出力するzerologロガーを提供する。
//
// 各ログレコードにはサービス名とビルドバージョンが付与され、
// リクエスト処理ではさらにトレースIDを付与して上流側のログと突き合わせる。
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Config はロガー生成のオプション。
type Config struct {
	// Level はログレベル（"debug"、"info"など）。空または不正な値の場合はinfoを使用する。
	Level string
	// Output は出力先。nilの場合はos.Stdoutを使用する。
	Output io.Writer
	// Service は全ログレコードに付与するサービス名。
	Service string
	// Version は全ログレコードに付与するビルドバージョン。
	Version string
}

// New は設定に従ってzerologロガーを生成する。
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", cfg.Service).
		Str("version", cfg.Version).
		Logger()
}
