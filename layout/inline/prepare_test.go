package inline

import "testing"

func TestApplySmartQuotesEnglish(t *testing.T) {
	quotes := QuotesForLang(LangEnglish)
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "“hello”"},
		{`say "hi" now`, "say “hi” now"},
		{`'single'`, "‘single’"},
		{`it's`, "it’s"},
		{`("quoted")`, "(“quoted”)"},
		{`no quotes`, "no quotes"},
	}
	for _, tt := range tests {
		if got := ApplySmartQuotes(tt.input, quotes); got != tt.want {
			t.Errorf("ApplySmartQuotes(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestApplySmartQuotesGerman(t *testing.T) {
	quotes := QuotesForLang("de")
	if got := ApplySmartQuotes(`"hallo"`, quotes); got != "„hallo“" {
		t.Errorf(`expected German quotes, got %q`, got)
	}
}

func TestApplySmartQuotesGraphemeAdjacency(t *testing.T) {
	quotes := QuotesForLang(LangEnglish)
	// The preceding grapheme is a multi-codepoint emoji; the quote after
	// it closes rather than opens.
	got := ApplySmartQuotes("👩‍🚀\" done", quotes)
	want := "👩‍🚀” done"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuotesOpenAfterDashes(t *testing.T) {
	quotes := QuotesForLang(LangEnglish)
	got := ApplySmartQuotes("wait—\"now\"", quotes)
	want := "wait—“now”"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrepareEmptyInput(t *testing.T) {
	p := Prepare(nil, &Config{}, "")
	if p.Text != "" {
		t.Errorf("empty input should prepare to empty text, got %q", p.Text)
	}
	if len(p.Items) != 0 {
		t.Errorf("empty input should produce no items, got %d", len(p.Items))
	}
}
