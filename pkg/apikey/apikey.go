// Package apikey はAPIキーの生成とマスキングを提供する。
// 生成したキーは環境変数またはキーストアに登録して使用する。
package apikey

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// Prefix は生成するAPIキーの接頭辞。
// ログやシークレットスキャナがAPIキーを識別できるようにする。
const Prefix = "lmp_"

// randomBytes は生成するキーの乱数バイト数。
// base64エンコード後に43文字となる。
const randomBytes = 32

// Generate は暗号論的乱数から新しいAPIキーを生成する。
// 形式: "lmp_" + URLセーフなbase64文字列（43文字）。
func Generate() (string, error) {
	b := make([]byte, randomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("乱数の生成に失敗: %w", err)
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// Mask はAPIキーをログや一覧表示用にマスキングする。
// 先頭8文字と末尾4文字のみを残し、短すぎるキーは全体を隠す。
func Mask(key string) string {
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}

// HasPrefix は文字列が生成済みAPIキーの形式で始まるかを返す。
// キーストアの失効操作で接頭辞指定の妥当性確認に使用する。
func HasPrefix(s string) bool {
	return strings.HasPrefix(s, Prefix)
}
