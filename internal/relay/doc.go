// Package relay は転送ゲートウェイサービスの内部実装を提供する。
//
// 受信したリクエストを単一の上流サイドカーへ転送し、レスポンスを
// 正規化されたJSONエンベロープとして呼び出し元へ返す。上流が不正な
// JSONを返しても、エラーステータスを返しても、タイムアウトしても、
// 呼び出し元は常に整形されたJSONボディとトレースIDヘッダーを受け取る。
package relay
