package directory

import "testing"

func TestFoldCaseAndSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase latin", "toyota motor", "TOYOTAMOTOR"},
		{"mixed case", "Sony Group Corporation", "SONY"},
		{"corporate suffix tokens", "Toyota Motor Corp", "TOYOTAMOTOR"},
		{"holdings stripped", "SoftBank Group Holdings Ltd", "SOFTBANK"},
		{"punctuation", "Keyence Co., Ltd.", "KEYENCE"},
		{"native corporate form", "トヨタ自動車株式会社", "トヨタ自動車"},
		{"native holdings", "ソフトバンクグループ", "ソフトバンク"},
		{"kabushiki marker", "（株）イオン", "イオン"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFoldWidthVariants(t *testing.T) {
	// Half-width katakana folds onto full-width
	if got, want := Fold("ﾄﾖﾀ"), Fold("トヨタ"); got != want {
		t.Errorf("half-width fold = %q, full-width fold = %q", got, want)
	}
}

func TestFoldHiraganaKatakana(t *testing.T) {
	if got, want := Fold("とよた"), Fold("トヨタ"); got != want {
		t.Errorf("hiragana fold = %q, katakana fold = %q", got, want)
	}
}

func TestFoldEquivalentSpellings(t *testing.T) {
	// Different renderings of the same company name fold identically
	groups := [][]string{
		{"Toyota Motor", "toyota motor", "TOYOTA MOTOR CORP", "Toyota Motor Co., Ltd."},
		{"ソフトバンク", "そふとばんく", "ソフトバンクグループ"},
	}

	for _, group := range groups {
		want := Fold(group[0])
		for _, s := range group[1:] {
			if got := Fold(s); got != want {
				t.Errorf("Fold(%q) = %q, want %q (same as %q)", s, got, want, group[0])
			}
		}
	}
}

func TestFoldQueryVariants(t *testing.T) {
	variants := FoldQuery("Toyota")
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2 (direct + transliterated)", len(variants))
	}
	if variants[0] != "TOYOTA" {
		t.Errorf("variants[0] = %q, want TOYOTA", variants[0])
	}
	if variants[1] != "トヨタ" {
		t.Errorf("variants[1] = %q, want トヨタ", variants[1])
	}
}

func TestFoldQueryNativeInputGetsNoTransliteration(t *testing.T) {
	variants := FoldQuery("トヨタ")
	if len(variants) != 1 {
		t.Fatalf("got %d variants, want 1 for native input", len(variants))
	}
}

func TestFoldQueryDigitsGetNoTransliteration(t *testing.T) {
	variants := FoldQuery("7203")
	if len(variants) != 1 || variants[0] != Fold("7203") {
		t.Errorf("variants = %v", variants)
	}
}
