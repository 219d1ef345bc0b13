package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleAfter は最後のリクエストからリミッターを破棄するまでの時間。
const staleAfter = 3 * time.Minute

// pruneInterval は未使用リミッターの掃除を行う最短間隔。
const pruneInterval = time.Minute

// RateLimit はクライアントごとのレート制限を行うGinミドルウェアを返す。
// クライアントは提示されたAPIキーで識別し、キーが無い場合は接続元IP
// アドレスで識別する。ヘルスチェックパスは制限の対象外とする。
// perMinuteは1クライアントあたりの1分間の最大リクエスト数。
func RateLimit(perMinute int) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*client)
		lastPrune = time.Now()
	)

	limit := rate.Limit(float64(perMinute) / 60.0)

	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}

		id := ExtractAPIKey(c)
		if id == "" {
			id = "ip_" + c.ClientIP()
		}

		now := time.Now()

		mu.Lock()
		// 滞留したリミッターを定期的に破棄してメモリ使用量を抑える
		if now.Sub(lastPrune) > pruneInterval {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) > staleAfter {
					delete(clients, key)
				}
			}
			lastPrune = now
		}

		cl, ok := clients[id]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(limit, perMinute)}
			clients[id] = cl
		}
		cl.lastSeen = now
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			log.Printf("[RATELIMIT] 制限超過: %s %s", c.Request.Method, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "リクエスト数が制限を超えました。時間をおいて再試行してください",
			})
			return
		}

		c.Next()
	}
}
