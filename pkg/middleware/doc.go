// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// APIキー認証ゲート、クライアントごとのレート制限、リクエストメトリクス、
// パニックリカバリ、CORS設定を含む。認証ゲートは起動時に固定された
// クレデンシャルセットとの完全一致のみでリクエストの通過可否を判定する。
package middleware
