package directory

import (
	"strings"

	"golang.org/x/text/width"
)

// corporateSuffixes are legal-form tokens stripped from Latin-script
// names and queries before matching, so "Toyota Inc" and "Toyota" search
// identically.
var corporateSuffixes = map[string]struct{}{
	"HOLDINGS":     {},
	"HOLDING":      {},
	"HLDGS":        {},
	"LTD":          {},
	"LIMITED":      {},
	"INC":          {},
	"INCORPORATED": {},
	"CORP":         {},
	"CORPORATION":  {},
	"CO":           {},
	"COMPANY":      {},
	"GROUP":        {},
	"PLC":          {},
	"KK":           {},
}

// nativeSuffixes are the Japanese legal-form equivalents, removed
// wherever they appear since native names carry no token boundaries.
var nativeSuffixes = []string{
	"株式会社",
	"ホールディングス",
	"ホールディング",
	"グループ",
	"有限会社",
	"合同会社",
}

var punctStripper = strings.NewReplacer(".", "", ",", "", "．", "", "，", "", "・", "", "(株)", "", "（株）", "")

// Fold normalizes a name or query for matching: uppercase, corporate
// suffixes stripped, spaces removed, half-width characters widened and
// hiragana folded to katakana. Two spellings of the same name fold to
// the same string, so matching is plain substring containment.
func Fold(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = punctStripper.Replace(s)

	tokens := strings.Fields(s)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, drop := corporateSuffixes[tok]; drop {
			continue
		}
		kept = append(kept, tok)
	}
	s = strings.Join(kept, "")

	for _, suffix := range nativeSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}

	s = width.Widen.String(s)
	return hiraganaToKatakana(s)
}

// hiraganaToKatakana folds the hiragana block onto katakana, the two
// phonetic scripts being interchangeable for search purposes.
func hiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + 0x60
		}
		return r
	}, s)
}

// FoldQuery produces every folded variant of a query: the direct fold,
// plus a katakana transliteration when the query is Latin romaji, so a
// query in one script matches names stored in another.
func FoldQuery(query string) []string {
	variants := make([]string, 0, 2)

	if folded := Fold(query); folded != "" {
		variants = append(variants, folded)
	}

	if kana := romajiToKatakana(strippedLatin(query)); kana != "" {
		variants = append(variants, kana)
	}

	return variants
}

// strippedLatin returns the uppercased query with suffix tokens and
// spaces removed, or "" when the query is not pure Latin letters.
func strippedLatin(query string) string {
	s := strings.ToUpper(strings.TrimSpace(query))
	s = punctStripper.Replace(s)

	tokens := strings.Fields(s)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, drop := corporateSuffixes[tok]; drop {
			continue
		}
		for _, r := range tok {
			if r < 'A' || r > 'Z' {
				return ""
			}
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, "")
}
