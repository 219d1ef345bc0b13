package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// newRateLimitRouter はレート制限ミドルウェアを組み込んだテスト用ルーターを構築する。
func newRateLimitRouter(perMinute int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(perMinute))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/v1/employees", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"result": "ok"})
	})
	return router
}

// TestRateLimit はレート制限ミドルウェアを検証する。
func TestRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("制限内のリクエストは許可されること", func(t *testing.T) {
		t.Parallel()

		router := newRateLimitRouter(10)
		for i := range 10 {
			w := doAuthRequest(router, "/api/v1/employees", map[string]string{
				"X-API-Key": "client-a",
			})
			if w.Code != http.StatusOK {
				t.Fatalf("%d回目: ステータスコード = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}
	})

	t.Run("制限を超えたリクエストは429で拒否されること", func(t *testing.T) {
		t.Parallel()

		router := newRateLimitRouter(5)
		for range 5 {
			doAuthRequest(router, "/api/v1/employees", map[string]string{
				"X-API-Key": "client-b",
			})
		}

		w := doAuthRequest(router, "/api/v1/employees", map[string]string{
			"X-API-Key": "client-b",
		})
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusTooManyRequests)
		}
	})

	t.Run("クライアントごとに独立して制限されること", func(t *testing.T) {
		t.Parallel()

		router := newRateLimitRouter(3)

		// client-cの制限を使い切る
		for range 4 {
			doAuthRequest(router, "/api/v1/employees", map[string]string{
				"X-API-Key": "client-c",
			})
		}

		// 別クライアントは影響を受けない
		w := doAuthRequest(router, "/api/v1/employees", map[string]string{
			"X-API-Key": "client-d",
		})
		if w.Code != http.StatusOK {
			t.Errorf("別クライアント: ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("ヘルスチェックパスは制限の対象外であること", func(t *testing.T) {
		t.Parallel()

		router := newRateLimitRouter(2)
		for i := range 20 {
			w := doAuthRequest(router, "/health", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("%d回目: ステータスコード = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}
	})

	t.Run("キー無しのクライアントはIPアドレスで識別されること", func(t *testing.T) {
		t.Parallel()

		router := newRateLimitRouter(3)
		var last *httptest.ResponseRecorder
		for range 4 {
			last = doAuthRequest(router, "/api/v1/employees", nil)
		}
		if last.Code != http.StatusTooManyRequests {
			t.Errorf("ステータスコード = %d, want %d", last.Code, http.StatusTooManyRequests)
		}
	})

	t.Run("多数のクライアントを同時に追跡できること", func(t *testing.T) {
		t.Parallel()

		router := newRateLimitRouter(10)
		for i := range 50 {
			w := doAuthRequest(router, "/api/v1/employees", map[string]string{
				"X-API-Key": fmt.Sprintf("client-%d", i),
			})
			if w.Code != http.StatusOK {
				t.Fatalf("client-%d: ステータスコード = %d, want %d", i, w.Code, http.StatusOK)
			}
		}
	})
}
