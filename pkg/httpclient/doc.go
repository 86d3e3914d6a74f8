// Package httpclient は上流サイドカーへのHTTP転送を行うクライアントを提供する。
//
// ルートごとに異なるタイムアウト予算をリクエスト単位で適用し、
// 上流のレスポンスをステータスコードとボディのまま呼び出し元へ返す。
// 上流のエラーステータスをどう扱うかは呼び出し元が決める。
package httpclient
