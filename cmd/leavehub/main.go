// 休暇・人事データ照会サービスのエントリポイント。
// APIキー認証ゲートの内側で従業員検索・休暇残日数の照会・APIキー管理を提供する。
package main

import (
	"log"

	"github.com/nao1215/leavehub/internal/config"
	"github.com/nao1215/leavehub/internal/hr"
)

func main() {
	cfg := config.Load()

	server, err := hr.NewServer(cfg)
	if err != nil {
		log.Fatalf("leavehubサーバーの初期化に失敗: %v", err)
	}
	defer server.Shutdown()

	log.Printf("leavehubサービスを起動します: :%s (認証必須=%t, レート制限=%t)",
		cfg.Port, cfg.RequireAPIKey, cfg.EnableRateLimit)
	if err := server.Run(); err != nil {
		log.Fatalf("leavehubサービスの起動に失敗: %v", err)
	}
}
