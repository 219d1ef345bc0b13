package hr

import (
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/pmezard/go-difflib/difflib"

	hrdb "github.com/nao1215/leavehub/internal/hr/db"
)

// fuzzyThreshold はあいまい一致とみなす最低スコア。
const fuzzyThreshold = 0.6

// maxFuzzyResults はあいまい検索フォールバックで返す最大件数。
const maxFuzzyResults = 5

// normalizeName は氏名を比較用に正規化する。
// 小文字化し、英数字と空白以外を取り除き、連続する空白を1つにまとめる。
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// similarityScore は2つの氏名の類似度を0から1の範囲で返す。
// レーベンシュタイン距離による類似度と部分列一致率を6:4で合成する。
func similarityScore(name1, name2 string) float64 {
	n1 := normalizeName(name1)
	n2 := normalizeName(name2)

	maxLen := max(utf8.RuneCountInString(n1), utf8.RuneCountInString(n2), 1)
	dist := levenshtein.Distance(n1, n2, nil)
	levenshteinSim := 1 - float64(dist)/float64(maxLen)

	sequenceSim := sequenceRatio(n1, n2)

	return levenshteinSim*0.6 + sequenceSim*0.4
}

// sequenceRatio は文字単位の部分列一致率を返す。
func sequenceRatio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// nameParts は氏名を最初の要素と最後の要素に分割した結果。
type nameParts struct {
	first string
	last  string
}

// extractNameParts は氏名から名と姓に相当する要素を取り出す。
// 3語以上の場合は最初と最後の語を採用する。
func extractNameParts(fullName string) nameParts {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return nameParts{}
	case 1:
		return nameParts{first: parts[0]}
	default:
		return nameParts{first: parts[0], last: parts[len(parts)-1]}
	}
}

// fuzzyMatch はあいまい一致の1件の結果。
type fuzzyMatch struct {
	developer hrdb.Developer
	score     float64
}

// fuzzyMatchDevelopers は検索名を従業員一覧とあいまい一致で突き合わせる。
// フルネーム、姓名の入れ替え、姓・名それぞれの比較を試し、最高スコアが
// しきい値以上の従業員をスコア降順で返す。
func fuzzyMatchDevelopers(searchName string, developers []hrdb.Developer, threshold float64) []fuzzyMatch {
	searchParts := extractNameParts(searchName)

	var matches []fuzzyMatch
	for _, dev := range developers {
		fullName := strings.TrimSpace(dev.DeveloperName)
		scores := []float64{similarityScore(searchName, fullName)}

		if fields := strings.Fields(fullName); len(fields) > 1 {
			firstName := fields[0]
			lastName := strings.Join(fields[1:], " ")
			scores = append(scores,
				similarityScore(searchName, firstName+" "+lastName),
				similarityScore(searchName, lastName+" "+firstName),
			)

			if searchParts.last != "" {
				firstScore := similarityScore(searchParts.first, firstName)
				lastScore := similarityScore(searchParts.last, lastName)
				if firstScore > 0 || lastScore > 0 {
					scores = append(scores, (firstScore+lastScore)/2)
				}
			}
		}

		best := slices.Max(scores)
		if best >= threshold {
			matches = append(matches, fuzzyMatch{developer: dev, score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	return matches
}
