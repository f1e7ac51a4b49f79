package inline

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/bidi"
)

// Preparation of a paragraph: smart-quote substitution, tab expansion,
// bidirectional analysis, and shaping happen once per paragraph; the
// result feeds every subsequent break attempt, so re-breaking (multiple
// measure calls, variable-width iteration) never re-shapes.

// tabReplacement is the expansion of a tab character before shaping.
// Proper tab stops are resolved by block layout; inside a paragraph a
// tab acts as wide fixed spacing.
const tabReplacement = "    "

// SmartQuotes holds the quote characters substituted for ASCII quotes.
type SmartQuotes struct {
	SingleOpen  string
	SingleClose string
	DoubleOpen  string
	DoubleClose string
}

// QuotesForLang returns the quote set for a language.
func QuotesForLang(lang Lang) SmartQuotes {
	switch lang {
	case "de":
		return SmartQuotes{SingleOpen: "‚", SingleClose: "‘", DoubleOpen: "„", DoubleClose: "“"}
	case "fr":
		return SmartQuotes{SingleOpen: "‹", SingleClose: "›", DoubleOpen: "«", DoubleClose: "»"}
	default:
		return SmartQuotes{SingleOpen: "‘", SingleClose: "’", DoubleOpen: "“", DoubleClose: "”"}
	}
}

// ApplySmartQuotes substitutes ASCII straight quotes with typographic
// quotes. A quote opens when the preceding grapheme is absent, a space,
// or an opening bracket; otherwise it closes. Graphemes rather than
// runes decide adjacency so combining sequences and emoji count as one
// preceding "character".
func ApplySmartQuotes(text string, quotes SmartQuotes) string {
	if !strings.ContainsAny(text, `'"`) {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	prev := ""
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		g := gr.Str()
		switch g {
		case `"`:
			if quoteOpens(prev) {
				out.WriteString(quotes.DoubleOpen)
			} else {
				out.WriteString(quotes.DoubleClose)
			}
		case `'`:
			if quoteOpens(prev) {
				out.WriteString(quotes.SingleOpen)
			} else {
				out.WriteString(quotes.SingleClose)
			}
		default:
			out.WriteString(g)
		}
		prev = g
	}
	return out.String()
}

// quoteOpens reports whether a quote following prev starts a quotation.
func quoteOpens(prev string) bool {
	if prev == "" {
		return true
	}
	r := []rune(prev)[0]
	switch r {
	case ' ', '\t', '\n', ' ', '(', '[', '{', '–', '—':
		return true
	}
	return isSpace(r)
}

// Prepare runs the once-per-paragraph pipeline over raw paragraph text:
// smart quotes, tab expansion, UAX #9 bidirectional analysis, and
// shaping of each directional run. The returned Preparation is reusable
// across any number of break attempts.
func Prepare(ctx *ShapingContext, config *Config, text string) *Preparation {
	quoted := ApplySmartQuotes(text, QuotesForLang(langOrDefault(config)))
	expanded := strings.ReplaceAll(quoted, "\t", tabReplacement)

	p := &Preparation{
		Text:   expanded,
		Config: config,
	}
	if expanded == "" {
		return p
	}

	defaultDir := bidi.LeftToRight
	if config.Dir == DirRTL {
		defaultDir = bidi.RightToLeft
	}
	var para bidi.Paragraph
	para.SetString(expanded, bidi.DefaultDirection(defaultDir))

	shaped := ShapeRange(ctx, expanded, 0, 0, len(expanded), &para)
	for _, st := range shaped {
		p.Items = append(p.Items, PreparedItem{
			Range: Range{Start: st.Base, End: st.Base + len(st.Text)},
			Item:  &TextItem{shaped: st},
		})
	}
	return p
}

func langOrDefault(config *Config) Lang {
	if config != nil && config.Lang != nil {
		return *config.Lang
	}
	return LangEnglish
}

// PrepareSimple prepares a paragraph without font shaping: every rune
// advances half the font size, spaces are justifiable. It is the
// metrics-only path used when no font book is threaded through layout;
// the resulting Preparation drives the same breakers as shaped text.
func PrepareSimple(text string, config *Config) *Preparation {
	quoted := ApplySmartQuotes(text, QuotesForLang(langOrDefault(config)))
	expanded := strings.ReplaceAll(quoted, "\t", tabReplacement)

	p := &Preparation{Text: expanded, Config: config}
	if expanded == "" {
		return p
	}

	size := config.FontSize
	if size <= 0 {
		size = 12
	}

	shaped := &ShapedText{Text: expanded, Size: size, Lang: langOrDefault(config)}
	glyphs := make([]ShapedGlyph, 0, len(expanded))
	offset := 0
	for _, r := range expanded {
		n := len(string(r))
		glyphs = append(glyphs, ShapedGlyph{
			XAdvance:      Em(0.5),
			Size:          size,
			Char:          r,
			Range:         Range{Start: offset, End: offset + n},
			IsJustifiable: r == ' ',
		})
		offset += n
	}
	shaped.Glyphs = NewGlyphsFromSlice(glyphs)

	p.Items = []PreparedItem{{
		Range: Range{Start: 0, End: len(expanded)},
		Item:  &TextItem{shaped: shaped},
	}}
	return p
}
