package finding

import (
	"math"
	"testing"
)

func mkFinding(agent string, metrics map[string]MetricValue) Finding {
	return Finding{AgentID: agent, Metrics: metrics, Confidence: 0.8}
}

func TestDetectEmitsAboveThreshold(t *testing.T) {
	d := Detector{}
	findings := []Finding{
		mkFinding("a", map[string]MetricValue{"unemployment_rate": {Value: 0.10}}),
		mkFinding("b", map[string]MetricValue{"unemployment_rate": {Value: 0.12}}),
	}
	got := d.Detect(findings)
	if len(got) != 1 {
		t.Fatalf("expected 1 contradiction, got %d", len(got))
	}
	c := got[0]
	if c.Metric != "unemployment_rate" || c.AgentA != "a" || c.AgentB != "b" {
		t.Fatalf("unexpected contradiction: %+v", c)
	}
	wantDelta := math.Abs(0.10-0.12) / 0.12
	if math.Abs(c.Delta-wantDelta) > 1e-12 {
		t.Fatalf("delta: got %v want %v", c.Delta, wantDelta)
	}
}

func TestDetectBoundary(t *testing.T) {
	// delta exactly at the threshold must not fire; just above must.
	cases := []struct {
		name string
		a, b float64
		want int
	}{
		{"at threshold", 100, 95, 0},      // delta = 5/100 = threshold
		{"just above", 100, 94.9, 1},      // delta > 0.05
		{"well below", 100, 99, 0},        //
		{"identical", 0.07, 0.07, 0},      //
		{"both zero", 0, 0, 0},            // epsilon guards the division
		{"one zero", 0, 0.01, 1},          // delta = 1
	}
	for _, tc := range cases {
		d := Detector{}
		findings := []Finding{
			mkFinding("a", map[string]MetricValue{"m": {Value: tc.a}}),
			mkFinding("b", map[string]MetricValue{"m": {Value: tc.b}}),
		}
		if got := len(d.Detect(findings)); got != tc.want {
			t.Fatalf("%s: got %d contradictions, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDetectMetricInOneFindingOnly(t *testing.T) {
	d := Detector{}
	findings := []Finding{
		mkFinding("a", map[string]MetricValue{"gdp_growth": {Value: 2.0}}),
		mkFinding("b", map[string]MetricValue{"inflation": {Value: 8.0}}),
	}
	if got := d.Detect(findings); len(got) != 0 {
		t.Fatalf("expected none, got %+v", got)
	}
}

func TestDetectSynonymNormalization(t *testing.T) {
	d := Detector{}
	findings := []Finding{
		mkFinding("a", map[string]MetricValue{"Jobless Rate": {Value: 0.10}}),
		mkFinding("b", map[string]MetricValue{"unemployment_rate": {Value: 0.13}}),
	}
	got := d.Detect(findings)
	if len(got) != 1 {
		t.Fatalf("expected synonym metrics to collide, got %d", len(got))
	}
	if got[0].Metric != "unemployment_rate" {
		t.Fatalf("canonical metric: got %q", got[0].Metric)
	}
}

func TestDetectSuppressesDifferentContext(t *testing.T) {
	d := Detector{}
	findings := []Finding{
		mkFinding("a", map[string]MetricValue{"m": {Value: 0.10, Period: "2024"}}),
		mkFinding("b", map[string]MetricValue{"m": {Value: 0.20, Period: "2025"}}),
	}
	if got := d.Detect(findings); len(got) != 0 {
		t.Fatalf("differing periods must not contradict, got %+v", got)
	}

	findings = []Finding{
		mkFinding("a", map[string]MetricValue{"m": {Value: 0.10, Methodology: "survey"}}),
		mkFinding("b", map[string]MetricValue{"m": {Value: 0.20, Methodology: "register"}}),
	}
	if got := d.Detect(findings); len(got) != 0 {
		t.Fatalf("differing methodology must not contradict, got %+v", got)
	}
}

func TestDetectRangeUsesMidpoint(t *testing.T) {
	lo, hi := 0.08, 0.12
	d := Detector{}
	findings := []Finding{
		mkFinding("a", map[string]MetricValue{"m": {Low: &lo, High: &hi}}), // midpoint 0.10
		mkFinding("b", map[string]MetricValue{"m": {Value: 0.101}}),
	}
	if got := d.Detect(findings); len(got) != 0 {
		t.Fatalf("midpoint within threshold, got %+v", got)
	}
}

func TestDetectDeterministicOrder(t *testing.T) {
	d := Detector{}
	findings := []Finding{
		mkFinding("a", map[string]MetricValue{"x": {Value: 1}, "y": {Value: 10}, "z": {Value: 100}}),
		mkFinding("b", map[string]MetricValue{"x": {Value: 2}, "y": {Value: 20}, "z": {Value: 200}}),
	}
	first := d.Detect(findings)
	for i := 0; i < 20; i++ {
		again := d.Detect(findings)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: order changed at %d: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
}

func TestContradictionKey(t *testing.T) {
	c := Contradiction{Metric: "m", AgentA: "a", AgentB: "b"}
	if c.Key() != "m|a|b" {
		t.Fatalf("key: %q", c.Key())
	}
}
