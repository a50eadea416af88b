package citation

import (
	"regexp"
	"strings"
)

// numToken matches numeric claims: digits with optional grouping, optional
// decimal part, optional percent suffix.
var numToken = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?%?`)

// sentenceEnd matches terminators followed by whitespace or end of text, so
// decimal points inside numbers never split a sentence.
var sentenceEnd = regexp.MustCompile(`[.!?](?:\s+|$)`)

// VerifyResult is the outcome of checking one narrative against the index.
type VerifyResult struct {
	Annotated  string
	Violations int
	Unverified []string
}

// Verify extracts every numeric token from the narrative and checks that it
// traces to an indexed fact. Unverifiable tokens are annotated in place, never
// removed. Each quantity-bearing sentence in which no token resolves
// increments the violation counter.
func (x *Index) Verify(narrative string) VerifyResult {
	res := VerifyResult{Annotated: narrative}
	if strings.TrimSpace(narrative) == "" {
		return res
	}

	var annotated strings.Builder
	for _, sentence := range splitSentences(narrative) {
		tokens := numToken.FindAllStringIndex(sentence, -1)
		if len(tokens) == 0 {
			annotated.WriteString(sentence)
			continue
		}
		resolved := 0
		last := 0
		for _, span := range tokens {
			tok := sentence[span[0]:span[1]]
			annotated.WriteString(sentence[last:span[1]])
			last = span[1]
			if _, ok := x.Lookup(tok); ok {
				resolved++
				continue
			}
			annotated.WriteString("(unverified)")
			res.Unverified = append(res.Unverified, tok)
		}
		annotated.WriteString(sentence[last:])
		if resolved == 0 {
			res.Violations++
		}
	}
	res.Annotated = annotated.String()
	return res
}

// splitSentences cuts text after sentence terminators, keeping the terminator
// and trailing whitespace with the preceding sentence so that rejoining the
// pieces reproduces the original text.
func splitSentences(text string) []string {
	ends := sentenceEnd.FindAllStringIndex(text, -1)
	if len(ends) == 0 {
		return []string{text}
	}
	var out []string
	start := 0
	for _, e := range ends {
		out = append(out, text[start:e[1]])
		start = e[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
