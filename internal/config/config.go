// Package config は環境変数からサーバー設定を構築する。
// 設定は起動時に一度だけ読み込み、以降は不変の値として各層に受け渡す。
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config はleavehubサーバーの設定。
// Loadで構築した後は変更せず、値渡しまたは参照共有で利用する。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// RequireAPIKey はAPIキー認証を必須とするかどうか。
	// falseの場合は全リクエストを無認証で許可する（開発用・非推奨）。
	RequireAPIKey bool
	// APIKeys は環境変数で設定された受け入れ可能なAPIキーの一覧。
	APIKeys []string
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string
	// RateLimitPerMinute はクライアントごとの1分あたり最大リクエスト数。
	RateLimitPerMinute int
	// EnableRateLimit はレート制限を有効にするかどうか。
	EnableRateLimit bool
	// AllowedOrigins はCORSで許可するオリジンの一覧。
	AllowedOrigins []string
}

// Load は環境変数からConfigを構築する。
//
// 認識する環境変数:
//   - PORT: リッスンポート（デフォルト: 8080）
//   - REQUIRE_API_KEY: 認証必須フラグ（デフォルト: true）
//   - API_KEYS: カンマ区切りのAPIキー一覧
//   - DB_PATH: SQLiteファイルのパス（デフォルト: /data/leavehub.db）
//   - RATE_LIMIT: 1分あたり最大リクエスト数（デフォルト: 100）
//   - ENABLE_RATE_LIMIT: レート制限フラグ（デフォルト: true）
//   - ALLOWED_ORIGINS: カンマ区切りのCORS許可オリジン一覧
func Load() Config {
	return Config{
		Port:               getEnvOr("PORT", "8080"),
		RequireAPIKey:      getEnvBool("REQUIRE_API_KEY", true),
		APIKeys:            splitList(os.Getenv("API_KEYS")),
		DBPath:             getEnvOr("DB_PATH", "/data/leavehub.db"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT", 100),
		EnableRateLimit:    getEnvBool("ENABLE_RATE_LIMIT", true),
		AllowedOrigins:     splitList(getEnvOr("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvBool は環境変数を真偽値として取得する。
// "true"（大文字小文字を区別しない）のみを真と解釈する。
func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return strings.EqualFold(v, "true")
}

// getEnvInt は環境変数を整数として取得する。
// 未設定または不正な値の場合はデフォルト値を返す。
func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// splitList はカンマ区切りの文字列をトリムして分割する。
// 空要素は除外する。
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
