package citation

import (
	"math"
	"strconv"
	"strings"

	"concord/internal/facts"
)

// Entry names the origin of one indexed numeric value.
type Entry struct {
	Source   string
	Period   string
	OriginID string
}

// Index maps textual renderings of numeric fact values to their origin.
// Built fresh per request from the raw fact set; never persisted.
type Index struct {
	byToken map[string]Entry
}

// BuildIndex renders every fact value into its alternate textual forms
// (integer, one/two decimal, percent-suffixed, comma-grouped) and maps each
// form to the fact's origin. The first fact to claim a rendering wins, so
// index construction is deterministic in fact order.
func BuildIndex(fs facts.FactSet) *Index {
	x := &Index{byToken: make(map[string]Entry, len(fs.Facts)*6)}
	for _, f := range fs.Facts {
		e := Entry{Source: f.Source, Period: f.Period, OriginID: f.ID}
		for _, r := range Renderings(f.Value, f.Unit) {
			if _, exists := x.byToken[r]; !exists {
				x.byToken[r] = e
			}
		}
	}
	return x
}

// Len returns the number of distinct renderings in the index.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byToken)
}

// Lookup resolves a numeric token against the index: first a direct match on
// the normalized token, then a fuzzy match across the token's own alternate
// renderings ("10" vs "10.0" vs "10%").
func (x *Index) Lookup(token string) (Entry, bool) {
	if x == nil || len(x.byToken) == 0 {
		return Entry{}, false
	}
	norm := normalizeToken(token)
	if e, ok := x.byToken[norm]; ok {
		return e, true
	}
	// Fuzzy: regenerate the token's alternate forms and probe each.
	isPct := strings.HasSuffix(norm, "%")
	numPart := strings.TrimSuffix(norm, "%")
	v, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return Entry{}, false
	}
	unit := ""
	if isPct {
		unit = "%"
	}
	for _, r := range Renderings(v, unit) {
		if e, ok := x.byToken[r]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Renderings returns the textual forms a value is indexed (and probed) under.
// A "%"-unit value additionally gets its decimal-fraction forms, and a plain
// fraction in (0,1] gets its percent forms, so "10%" and "0.10" meet in the
// middle regardless of which way the fact was recorded.
func Renderings(v float64, unit string) []string {
	forms := baseForms(v)
	var out []string
	seen := make(map[string]struct{}, 12)
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if unit == "%" {
		for _, f := range forms {
			add(f + "%")
		}
		for _, f := range baseForms(v / 100) {
			add(f)
		}
		return out
	}
	for _, f := range forms {
		add(f)
	}
	if v > 0 && v <= 1 {
		for _, f := range baseForms(v * 100) {
			add(f + "%")
		}
	}
	return out
}

// baseForms renders a value as minimal, one-decimal, two-decimal, and (for
// integers) comma-grouped strings.
func baseForms(v float64) []string {
	var forms []string
	forms = append(forms, strconv.FormatFloat(v, 'f', -1, 64))
	forms = append(forms, strconv.FormatFloat(v, 'f', 1, 64))
	forms = append(forms, strconv.FormatFloat(v, 'f', 2, 64))
	if v == math.Trunc(v) && math.Abs(v) >= 1000 {
		forms = append(forms, groupThousands(strconv.FormatFloat(v, 'f', 0, 64)))
	}
	return forms
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// normalizeToken strips digit grouping so "1,234" and "1234" hit the same key.
func normalizeToken(tok string) string {
	return strings.ReplaceAll(strings.TrimSpace(tok), ",", "")
}
