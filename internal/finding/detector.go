package finding

import (
	"math"
	"sort"
)

// DefaultThreshold is the relative delta above which two values contradict.
// The 5% default is a tunable, not an invariant; override via Detector.
const DefaultThreshold = 0.05

const defaultEpsilon = 1e-9

// Detector scans findings pairwise for material disagreements. It is a pure
// function of its inputs: no side effects, deterministic output order.
type Detector struct {
	Threshold float64           // relative delta trigger; DefaultThreshold when 0
	Epsilon   float64           // denominator floor; defaultEpsilon when 0
	Synonyms  map[string]string // extra metric-name synonyms
}

// Detect emits one Contradiction per unordered finding pair and canonical
// metric where both sides assert a value and the relative delta
// |a-b| / max(|a|,|b|,eps) exceeds the threshold. Metrics present in only one
// finding never contradict, and observations tagged with differing periods or
// methodologies are skipped.
func (d Detector) Detect(findings []Finding) []Contradiction {
	threshold := d.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	eps := d.Epsilon
	if eps == 0 {
		eps = defaultEpsilon
	}

	var out []Contradiction
	for i := 0; i < len(findings); i++ {
		for j := i + 1; j < len(findings); j++ {
			a, b := findings[i], findings[j]
			for _, metric := range sharedMetrics(a, b, d.Synonyms) {
				va, vb := metric.a, metric.b
				if differentContext(va, vb) {
					continue
				}
				pa, pb := va.Point(), vb.Point()
				delta := relativeDelta(pa, pb, eps)
				if delta <= threshold {
					continue
				}
				out = append(out, Contradiction{
					Metric: metric.key,
					AgentA: a.AgentID,
					AgentB: b.AgentID,
					ValueA: pa,
					ValueB: pb,
					Delta:  delta,
				})
			}
		}
	}
	return out
}

func relativeDelta(a, b, eps float64) float64 {
	den := math.Max(math.Max(math.Abs(a), math.Abs(b)), eps)
	return math.Abs(a-b) / den
}

// differentContext reports whether the two observations are explicitly tagged
// as measuring different periods or methodologies.
func differentContext(a, b MetricValue) bool {
	if a.Period != "" && b.Period != "" && a.Period != b.Period {
		return true
	}
	if a.Methodology != "" && b.Methodology != "" && a.Methodology != b.Methodology {
		return true
	}
	return false
}

type sharedMetric struct {
	key  string
	a, b MetricValue
}

// sharedMetrics resolves both findings' metric names to canonical keys and
// returns the intersection in sorted key order for deterministic scans.
func sharedMetrics(a, b Finding, synonyms map[string]string) []sharedMetric {
	canonA := make(map[string]MetricValue, len(a.Metrics))
	for _, name := range sortedNames(a.Metrics) {
		key := CanonicalMetric(name, synonyms)
		if _, taken := canonA[key]; !taken { // first name in sorted order wins
			canonA[key] = a.Metrics[name]
		}
	}
	seen := make(map[string]struct{}, len(b.Metrics))
	var out []sharedMetric
	for _, name := range sortedNames(b.Metrics) {
		key := CanonicalMetric(name, synonyms)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if va, ok := canonA[key]; ok {
			out = append(out, sharedMetric{key: key, a: va, b: b.Metrics[name]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func sortedNames(m map[string]MetricValue) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
