package recipe

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumPattern    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	pantrySplitPattern = regexp.MustCompile(`[,\n]`)
)

// NormalizeText 轉小寫、去除重音、非英數字元改為空白並壓縮空白
func NormalizeText(text string) string {
	folded := foldAccents(strings.ToLower(text))
	folded = nonAlnumPattern.ReplaceAllString(folded, " ")
	folded = whitespacePattern.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

func foldAccents(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

// ParsePantryText 以逗號或換行切分，正規化後去重並保留首次出現順序
func ParsePantryText(raw string) []string {
	seen := make(map[string]bool)
	items := make([]string, 0)
	for _, piece := range pantrySplitPattern.Split(raw, -1) {
		token := NormalizeText(piece)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		items = append(items, token)
	}
	return items
}

// Matches 判斷食材名稱是否對應任一 pantry token：完全相同、互為子字串，或共享任一單字
func Matches(ingredientName string, pantry []string) bool {
	ingredient := NormalizeText(ingredientName)
	if ingredient == "" {
		return false
	}

	ingredientWords := strings.Split(ingredient, " ")
	for _, item := range pantry {
		if item == "" {
			continue
		}
		if ingredient == item {
			return true
		}
		if strings.Contains(ingredient, item) || strings.Contains(item, ingredient) {
			return true
		}
		pantryWords := strings.Split(item, " ")
		for _, word := range ingredientWords {
			for _, pantryWord := range pantryWords {
				if word == pantryWord {
					return true
				}
			}
		}
	}
	return false
}
