package directory

// romajiSyllables maps Hepburn syllables to katakana. Longest-match
// parsing handles the two- and three-letter digraphs before the plain
// consonant-vowel pairs.
var romajiSyllables = map[string]string{
	"A": "ア", "I": "イ", "U": "ウ", "E": "エ", "O": "オ",
	"KA": "カ", "KI": "キ", "KU": "ク", "KE": "ケ", "KO": "コ",
	"SA": "サ", "SHI": "シ", "SU": "ス", "SE": "セ", "SO": "ソ",
	"TA": "タ", "CHI": "チ", "TSU": "ツ", "TE": "テ", "TO": "ト",
	"NA": "ナ", "NI": "ニ", "NU": "ヌ", "NE": "ネ", "NO": "ノ",
	"HA": "ハ", "HI": "ヒ", "FU": "フ", "HE": "ヘ", "HO": "ホ",
	"MA": "マ", "MI": "ミ", "MU": "ム", "ME": "メ", "MO": "モ",
	"YA": "ヤ", "YU": "ユ", "YO": "ヨ",
	"RA": "ラ", "RI": "リ", "RU": "ル", "RE": "レ", "RO": "ロ",
	"WA": "ワ", "WO": "ヲ",
	"GA": "ガ", "GI": "ギ", "GU": "グ", "GE": "ゲ", "GO": "ゴ",
	"ZA": "ザ", "JI": "ジ", "ZU": "ズ", "ZE": "ゼ", "ZO": "ゾ",
	"DA": "ダ", "DE": "デ", "DO": "ド",
	"BA": "バ", "BI": "ビ", "BU": "ブ", "BE": "ベ", "BO": "ボ",
	"PA": "パ", "PI": "ピ", "PU": "プ", "PE": "ペ", "PO": "ポ",
	"KYA": "キャ", "KYU": "キュ", "KYO": "キョ",
	"SHA": "シャ", "SHU": "シュ", "SHO": "ショ",
	"CHA": "チャ", "CHU": "チュ", "CHO": "チョ",
	"NYA": "ニャ", "NYU": "ニュ", "NYO": "ニョ",
	"HYA": "ヒャ", "HYU": "ヒュ", "HYO": "ヒョ",
	"MYA": "ミャ", "MYU": "ミュ", "MYO": "ミョ",
	"RYA": "リャ", "RYU": "リュ", "RYO": "リョ",
	"GYA": "ギャ", "GYU": "ギュ", "GYO": "ギョ",
	"JA": "ジャ", "JU": "ジュ", "JO": "ジョ",
	"BYA": "ビャ", "BYU": "ビュ", "BYO": "ビョ",
	"PYA": "ピャ", "PYU": "ピュ", "PYO": "ピョ",
	"FA": "ファ", "FI": "フィ", "FE": "フェ", "FO": "フォ",
	"VA": "ヴァ", "VI": "ヴィ", "VU": "ヴ", "VE": "ヴェ", "VO": "ヴォ",
}

func isVowel(b byte) bool {
	switch b {
	case 'A', 'I', 'U', 'E', 'O':
		return true
	}
	return false
}

// romajiToKatakana transliterates an uppercase Hepburn-romaji string to
// katakana. Returns "" when the input is empty or contains a cluster
// that is not valid romaji, in which case the caller simply has no
// transliterated variant to match with.
func romajiToKatakana(s string) string {
	if s == "" {
		return ""
	}

	var out []rune
	for i := 0; i < len(s); {
		// syllabic N: before a non-vowel, non-Y consonant or at the end
		if s[i] == 'N' {
			if i+1 == len(s) || (!isVowel(s[i+1]) && s[i+1] != 'Y') {
				out = append(out, 'ン')
				i++
				continue
			}
		}

		// geminate consonant (sokuon), e.g. NIPPON -> ニッポン
		if i+1 < len(s) && s[i] == s[i+1] && !isVowel(s[i]) && s[i] != 'N' {
			out = append(out, 'ッ')
			i++
			continue
		}

		// long-vowel marker
		if s[i] == '-' {
			out = append(out, 'ー')
			i++
			continue
		}

		matched := false
		for n := 3; n >= 1; n-- {
			if i+n > len(s) {
				continue
			}
			if kana, ok := romajiSyllables[s[i:i+n]]; ok {
				out = append(out, []rune(kana)...)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			return ""
		}
	}

	return string(out)
}
