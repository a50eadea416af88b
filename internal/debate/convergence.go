package debate

import (
	"math"
	"strings"
	"unicode"
)

// DefaultConvergenceSimilarity is the cosine similarity above which two
// consecutive turns are considered to add no new argument surface.
const DefaultConvergenceSimilarity = 0.85

// Similarity computes the cosine similarity of the two texts' term-frequency
// vectors. It is deterministic and needs no external call, which keeps the
// convergence check replayable in tests.
func Similarity(a, b string) float64 {
	va, vb := termFreq(a), termFreq(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}
	var dot, na, nb float64
	for term, ca := range va {
		na += ca * ca
		if cb, ok := vb[term]; ok {
			dot += ca * cb
		}
	}
	for _, cb := range vb {
		nb += cb * cb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func termFreq(text string) map[string]float64 {
	out := make(map[string]float64)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		out[w]++
	}
	return out
}
