package hr

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/nao1215/leavehub/internal/config"
	hrdb "github.com/nao1215/leavehub/internal/hr/db"
	"github.com/nao1215/leavehub/pkg/middleware"
)

// serviceVersion はヘルスチェックで返すサービスバージョン。
const serviceVersion = "2.0.0"

// Server は休暇・人事データ照会サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサーバー設定。起動後は変更しない。
	cfg config.Config
	// queries はクエリ実行オブジェクト。
	queries *hrdb.Queries
	// service は従業員・休暇データの照会サービス。
	service *Service
	// db はSQLiteデータベース接続。
	db *sql.DB
	// credentials は起動時に構築した不変のクレデンシャルセット。
	// 環境変数のキーとキーストア内の有効なキーの和集合。
	credentials []string
}

// NewServer は新しいleavehubサーバーを生成する。
// SQLiteデータベースの初期化、スキーマ作成、クレデンシャルセットの構築を
// 行う。クレデンシャルセットは最初のリクエストを受け付ける前に確定し、
// 以降はロックなしで全リクエストハンドラから共有される。
func NewServer(cfg config.Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	queries := hrdb.New(sqlDB)

	credentials, err := buildCredentialSet(context.Background(), cfg.APIKeys, queries)
	if err != nil {
		return nil, err
	}

	if cfg.RequireAPIKey && len(credentials) == 0 {
		// フェイルクローズ: キーが無くても起動はするが、ヘルスチェック以外は全て拒否される
		log.Printf("[AUTH] 警告: 認証必須ですがAPIキーが1つも設定されていません。ヘルスチェック以外の全リクエストを拒否します")
	}
	if !cfg.RequireAPIKey {
		log.Printf("[AUTH] 警告: 認証が無効化されています。全リクエストが無認証で許可されます（本番環境では使用しないこと）")
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Metrics())
	if cfg.EnableRateLimit {
		router.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	}

	s := &Server{
		router:      router,
		cfg:         cfg,
		queries:     queries,
		service:     NewService(queries),
		db:          sqlDB,
		credentials: credentials,
	}
	s.setupRoutes()

	return s, nil
}

// buildCredentialSet は環境変数とキーストアからクレデンシャルセットを構築する。
// 環境変数のキーを先頭に、重複を取り除いた和集合を返す。
func buildCredentialSet(ctx context.Context, envKeys []string, queries *hrdb.Queries) ([]string, error) {
	stored, err := queries.ListActiveAPIKeyValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("キーストアからのキー読み込みに失敗: %w", err)
	}

	seen := make(map[string]struct{}, len(envKeys)+len(stored))
	credentials := make([]string, 0, len(envKeys)+len(stored))
	for _, key := range append(append([]string{}, envKeys...), stored...) {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		credentials = append(credentials, key)
	}
	return credentials, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// Shutdown はサーバーを停止し、データベース接続をクローズする。
func (s *Server) Shutdown() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("データベースのクローズに失敗: %v", err)
		}
	}
}

// setupRoutes はAPIルーティングを設定する。
// 認証ゲートはルーター全体に適用し、ヘルスチェックのバイパスは
// ゲート自身が行う。
func (s *Server) setupRoutes() {
	s.router.Use(middleware.APIKeyAuth(s.cfg.RequireAPIKey, s.credentials))

	// ヘルスチェック（認証不要・DBアクセスなし）
	s.router.GET("/health", s.handleHealth())

	// Prometheusメトリクス（認証必須）
	s.router.GET("/metrics", middleware.MetricsHandler())

	api := s.router.Group("/api/v1")
	{
		employees := api.Group("/employees")
		{
			// 従業員検索（部分一致とあいまい一致）
			employees.GET("", s.handleSearchEmployees())
			// 氏名からの従業員特定
			employees.GET("/resolve", s.handleResolveEmployee())
			// 従業員詳細取得
			employees.GET("/:id", s.handleGetEmployee())
			// 休暇残日数取得
			employees.GET("/:id/leave-balance", s.handleGetLeaveBalance())
		}

		keys := api.Group("/keys")
		{
			// APIキー発行
			keys.POST("", s.handleCreateAPIKey())
			// APIキー一覧取得（マスキング済み）
			keys.GET("", s.handleListAPIKeys())
			// APIキー失効
			keys.DELETE("/:prefix", s.handleRevokeAPIKey())
		}
	}
}

// handleHealth はヘルスチェックを処理するハンドラを返す。
// オーケストレーターの死活監視に使用されるため、データベースにも
// クレデンシャル比較にも触れず、固定のレスポンスを即座に返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	authEnabled := s.cfg.RequireAPIKey && len(s.credentials) > 0
	keysConfigured := len(s.credentials)

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "leavehub",
			"version": serviceVersion,
			"authentication": gin.H{
				"required":        s.cfg.RequireAPIKey,
				"enabled":         authEnabled,
				"keys_configured": keysConfigured,
			},
		})
	}
}
