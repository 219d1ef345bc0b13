package hr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	hrdb "github.com/nao1215/leavehub/internal/hr/db"
	"github.com/nao1215/leavehub/pkg/apikey"
)

// keyExpiresDays はAPIキー発行から失効までの日数。
const keyExpiresDays = 365

// minPrefixLen は失効操作で要求するキー接頭辞の最短長。
// 短すぎる接頭辞による誤失効を防ぐ。
const minPrefixLen = 8

// createKeyRequest はAPIキー発行リクエストのJSON構造。
type createKeyRequest struct {
	// Name はキーの用途を示す名前。
	Name string `json:"name" binding:"required"`
}

// apiKeyResponse はAPIキー一覧のJSONレスポンス構造。キー本体はマスキング済み。
type apiKeyResponse struct {
	// ID はレコードの一意識別子。
	ID string `json:"id"`
	// Name はキーの用途を示す名前。
	Name string `json:"name"`
	// APIKey はマスキングされたキー。
	APIKey string `json:"api_key"`
	// Active はキーが有効かどうか。
	Active bool `json:"active"`
	// CreatedAt は発行日時。
	CreatedAt string `json:"created_at"`
	// LastUsed は最終使用日時。
	LastUsed string `json:"last_used,omitempty"`
	// ExpiresAt は有効期限。
	ExpiresAt string `json:"expires_at,omitempty"`
}

// toAPIKeyResponse はDB行をマスキング済みのJSONレスポンスに変換する。
func toAPIKeyResponse(k hrdb.APIKey) apiKeyResponse {
	resp := apiKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		APIKey:    apikey.Mask(k.APIKey),
		Active:    k.IsActive,
		CreatedAt: k.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if k.LastUsed.Valid {
		resp.LastUsed = k.LastUsed.Time.Format("2006-01-02T15:04:05Z")
	}
	if k.ExpiresAt.Valid {
		resp.ExpiresAt = k.ExpiresAt.Time.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// handleCreateAPIKey はAPIキー発行を処理するハンドラを返す。
// キー本体はこのレスポンスでのみ返し、以降はマスキングされた形でしか
// 参照できない。発行したキーは次回起動時からクレデンシャルセットに
// 取り込まれる。
func (s *Server) handleCreateAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です: nameは必須です"})
			return
		}

		key, err := apikey.Generate()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "APIキーの生成に失敗しました"})
			log.Printf("APIキー生成エラー: %v", err)
			return
		}

		if err := s.queries.CreateAPIKey(c.Request.Context(), hrdb.CreateAPIKeyParams{
			ID:          uuid.New().String(),
			Name:        req.Name,
			APIKey:      key,
			ExpiresDays: keyExpiresDays,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "APIキーの登録に失敗しました"})
			log.Printf("APIキー登録エラー: %v", err)
			return
		}

		log.Printf("[KEYSTORE] APIキーを発行: name=%s key=%s", req.Name, apikey.Mask(key))

		c.JSON(http.StatusCreated, gin.H{
			"name":            req.Name,
			"api_key":         key,
			"expires_in_days": keyExpiresDays,
			"note":            "このキーは再表示されません。安全に保管してください。次回起動時から有効になります",
		})
	}
}

// handleListAPIKeys はAPIキー一覧取得を処理するハンドラを返す。
// キー本体は必ずマスキングして返す。
func (s *Server) handleListAPIKeys() gin.HandlerFunc {
	return func(c *gin.Context) {
		keys, err := s.queries.ListAPIKeys(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "APIキー一覧の取得に失敗しました"})
			log.Printf("APIキー一覧取得エラー: %v", err)
			return
		}

		active := 0
		responses := make([]apiKeyResponse, 0, len(keys))
		for _, k := range keys {
			if k.IsActive {
				active++
			}
			responses = append(responses, toAPIKeyResponse(k))
		}

		c.JSON(http.StatusOK, gin.H{
			"total":  len(responses),
			"active": active,
			"keys":   responses,
		})
	}
}

// handleRevokeAPIKey はAPIキー失効を処理するハンドラを返す。
// キー本体をURLに含めないよう、接頭辞（8文字以上）でキーを指定する。
// 接頭辞が複数のキーに一致する場合は失効を行わない。
func (s *Server) handleRevokeAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		prefix := c.Param("prefix")
		if len(prefix) < minPrefixLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "キーの接頭辞は8文字以上で指定してください"})
			return
		}

		matches, err := s.queries.FindActiveAPIKeysByPrefix(c.Request.Context(), prefix)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "APIキーの検索に失敗しました"})
			log.Printf("APIキー検索エラー: %v", err)
			return
		}

		if len(matches) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "指定された接頭辞に一致する有効なAPIキーがありません"})
			return
		}
		if len(matches) > 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "指定された接頭辞に複数のAPIキーが一致します。より長い接頭辞を指定してください"})
			return
		}

		if err := s.queries.RevokeAPIKey(c.Request.Context(), matches[0].ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "APIキーの失効に失敗しました"})
			log.Printf("APIキー失効エラー: %v", err)
			return
		}

		log.Printf("[KEYSTORE] APIキーを失効: name=%s key=%s", matches[0].Name, apikey.Mask(matches[0].APIKey))

		c.JSON(http.StatusOK, gin.H{
			"revoked": apikey.Mask(matches[0].APIKey),
			"note":    "失効は次回起動時のクレデンシャルセットから反映されます",
		})
	}
}
