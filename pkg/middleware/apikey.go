package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/leavehub/pkg/apikey"
)

// healthPath は認証とレート制限をバイパスする唯一のパス。
// オーケストレーターが死活監視できるよう、常に到達可能でなければならない。
const healthPath = "/health"

// headerAPIKey はAPIキーを受け取る専用ヘッダーのキー。
// Authorization: Bearer形式の代替として使用できる。
const headerAPIKey = "X-API-Key"

// AuthReason は認証拒否の内部理由コード。
// 監査ログにのみ記録し、レスポンスボディには決して含めない。
type AuthReason string

const (
	// ReasonMissingCredential は保護されたパスへのリクエストにAPIキーが提示されなかったことを示す。
	ReasonMissingCredential AuthReason = "MISSING_CREDENTIAL"
	// ReasonInvalidCredential は提示されたAPIキーがクレデンシャルセットのどの要素とも一致しなかったことを示す。
	ReasonInvalidCredential AuthReason = "INVALID_CREDENTIAL"
)

// APIKeyAuth はAPIキー認証ゲートのGinミドルウェアを返す。
//
// 判定は以下の順で行う:
//  1. ヘルスチェックパスは無条件で許可する
//  2. requiredがfalseなら無条件で許可する（開発用・非推奨）
//  3. APIキーが無ければ拒否する
//  4. クレデンシャルセットのいずれかと完全一致すれば許可、しなければ拒否する
//
// keysは起動時にコピーし、以降は読み取り専用として全リクエストで共有する。
// requiredがtrueでkeysが空の場合、ヘルスチェック以外の全リクエストを拒否する
// （フェイルクローズ）。
func APIKeyAuth(required bool, keys []string) gin.HandlerFunc {
	keyset := make([][]byte, 0, len(keys))
	for _, k := range keys {
		keyset = append(keyset, []byte(k))
	}

	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}

		if !required {
			c.Next()
			return
		}

		presented := ExtractAPIKey(c)
		if presented == "" {
			rejectRequest(c, ReasonMissingCredential)
			return
		}

		if !matchAPIKey(presented, keyset) {
			rejectRequest(c, ReasonInvalidCredential)
			return
		}

		log.Printf("[AUTH] 許可: %s %s key=%s", c.Request.Method, c.Request.URL.Path, apikey.Mask(presented))
		authDecisionsTotal.WithLabelValues("admit", "").Inc()
		c.Next()
	}
}

// ExtractAPIKey はリクエストヘッダーからAPIキーを取り出す。
// X-API-Keyヘッダーを優先し、無ければAuthorization: Bearer形式を確認する。
// どちらにも無い場合は空文字列を返す。
func ExtractAPIKey(c *gin.Context) string {
	if key := c.GetHeader(headerAPIKey); key != "" {
		return key
	}

	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		return token
	}
	return ""
}

// matchAPIKey は提示されたキーをクレデンシャルセットの全要素と定数時間で比較する。
// タイミング差から有効なキーを推測されないよう、一致後も比較を打ち切らない。
func matchAPIKey(presented string, keyset [][]byte) bool {
	p := []byte(presented)
	matched := 0
	for _, k := range keyset {
		if len(k) == len(p) && subtle.ConstantTimeCompare(k, p) == 1 {
			matched = 1
		}
	}
	return matched == 1
}

// rejectRequest は認証失敗の統一レスポンスを返す。
// どの検査で失敗したかをレスポンスから判別できないよう、
// ステータスコードとボディは理由によらず同一とする。
func rejectRequest(c *gin.Context, reason AuthReason) {
	log.Printf("[AUTH] 拒否: %s %s reason=%s", c.Request.Method, c.Request.URL.Path, reason)
	authDecisionsTotal.WithLabelValues("reject", string(reason)).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "認証に失敗しました",
	})
}
