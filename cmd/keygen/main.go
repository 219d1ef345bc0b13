// APIキー生成ツールのエントリポイント。
// 生成したキーを環境変数API_KEYSに設定してサーバーに登録する。
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nao1215/leavehub/pkg/apikey"
)

func main() {
	count := flag.Int("n", 2, "生成するAPIキーの数")
	flag.Parse()

	if *count < 1 {
		log.Fatal("生成数は1以上を指定してください")
	}

	keys := make([]string, 0, *count)
	for i := range *count {
		key, err := apikey.Generate()
		if err != nil {
			log.Fatalf("APIキーの生成に失敗: %v", err)
		}
		keys = append(keys, key)
		fmt.Printf("キー %d: %s\n", i+1, key)
	}

	fmt.Println()
	fmt.Println("環境変数に設定する場合:")
	fmt.Printf("API_KEYS=%s\n", strings.Join(keys, ","))
}
