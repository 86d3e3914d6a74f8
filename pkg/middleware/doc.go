// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// トレースIDの解決とリクエストログ、パニックリカバリ、
// CORS設定など、Relayサービスの全ルートで共通して使用するミドルウェアを含む。
package middleware
