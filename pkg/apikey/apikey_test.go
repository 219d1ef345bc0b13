package apikey

import (
	"strings"
	"testing"
)

// TestGenerate はGenerate関数を検証する。
func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("接頭辞付きのキーが生成されること", func(t *testing.T) {
		t.Parallel()

		key, err := Generate()
		if err != nil {
			t.Fatalf("Generate()でエラーが発生: %v", err)
		}
		if !strings.HasPrefix(key, Prefix) {
			t.Errorf("キーの接頭辞 = %q, want %q で始まること", key, Prefix)
		}
		// "lmp_" + 32バイトのbase64(パディングなし) = 4 + 43文字
		if len(key) != len(Prefix)+43 {
			t.Errorf("キーの長さ = %d, want %d", len(key), len(Prefix)+43)
		}
	})

	t.Run("連続生成したキーが重複しないこと", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 100)
		for range 100 {
			key, err := Generate()
			if err != nil {
				t.Fatalf("Generate()でエラーが発生: %v", err)
			}
			if _, ok := seen[key]; ok {
				t.Fatalf("キーが重複: %s", key)
			}
			seen[key] = struct{}{}
		}
	})
}

// TestMask はMask関数を検証する。
func TestMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "通常のキーは先頭8文字と末尾4文字を残す", key: "lmp_abcdefghijklmnop", want: "lmp_abcd...mnop"},
		{name: "13文字のキーはマスキングされる", key: "1234567890123", want: "12345678...0123"},
		{name: "12文字以下のキーは全体を隠す", key: "123456789012", want: "***"},
		{name: "空文字列は全体を隠す", key: "", want: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Mask(tt.key); got != tt.want {
				t.Errorf("Mask(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// TestHasPrefix はHasPrefix関数を検証する。
func TestHasPrefix(t *testing.T) {
	t.Parallel()

	key, err := Generate()
	if err != nil {
		t.Fatalf("Generate()でエラーが発生: %v", err)
	}
	if !HasPrefix(key) {
		t.Errorf("HasPrefix(%q) = false, want true", key)
	}
	if HasPrefix("other-key") {
		t.Error("HasPrefix(\"other-key\") = true, want false")
	}
}
