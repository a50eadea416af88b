package finding

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMetricValueUnmarshalShapes(t *testing.T) {
	var f Finding
	raw := `{
		"agent_id": "a",
		"narrative": "n",
		"metrics": {
			"bare": 0.1,
			"range": [0.08, 0.12],
			"object": {"value": 0.2, "period": "2025-Q4"}
		},
		"confidence": 0.8
	}`
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Metrics["bare"].Value != 0.1 {
		t.Fatalf("bare: %+v", f.Metrics["bare"])
	}
	r := f.Metrics["range"]
	if r.Low == nil || r.High == nil || *r.Low != 0.08 || *r.High != 0.12 {
		t.Fatalf("range: %+v", r)
	}
	if got := r.Point(); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("range midpoint: %v", got)
	}
	o := f.Metrics["object"]
	if o.Value != 0.2 || o.Period != "2025-Q4" {
		t.Fatalf("object: %+v", o)
	}
}

func TestMetricValueBadRange(t *testing.T) {
	var m MetricValue
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &m); err == nil {
		t.Fatalf("expected error for 3-element range")
	}
}

func TestCanonicalMetric(t *testing.T) {
	cases := map[string]string{
		"Unemployment Rate": "unemployment_rate",
		"jobless-rate":      "unemployment_rate",
		"  CPI ":            "inflation_rate",
		"GDP/Growth":        "gdp_growth",
		"custom_metric":     "custom_metric",
	}
	for in, want := range cases {
		if got := CanonicalMetric(in, nil); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
	if got := CanonicalMetric("house_prices", map[string]string{"house_prices": "hpi"}); got != "hpi" {
		t.Fatalf("caller synonyms ignored: %q", got)
	}
}
