package citation

import (
	"testing"

	"concord/internal/facts"
)

func demoFacts() facts.FactSet {
	return facts.FactSet{
		Topic: "unemployment",
		Facts: []facts.Fact{
			{ID: "bls-1", Metric: "unemployment_rate", Value: 0.10, Source: "BLS", Period: "2025-Q4"},
			{ID: "oecd-1", Metric: "unemployment_rate", Value: 0.12, Source: "OECD", Period: "2025-Q4"},
			{ID: "gdp-1", Metric: "gdp", Value: 21433, Unit: "USD", Source: "BEA", Period: "2025"},
		},
	}
}

func TestLookupDirectAndFuzzy(t *testing.T) {
	x := BuildIndex(demoFacts())

	for _, tok := range []string{"0.10", "0.1", "10%", "10.0%", "0.12", "12%"} {
		e, ok := x.Lookup(tok)
		if !ok {
			t.Fatalf("token %q did not resolve", tok)
		}
		if e.Source != "BLS" && e.Source != "OECD" {
			t.Fatalf("token %q resolved to unexpected source %q", tok, e.Source)
		}
	}

	if _, ok := x.Lookup("0.37"); ok {
		t.Fatalf("unindexed token resolved")
	}
}

func TestLookupGroupedThousands(t *testing.T) {
	x := BuildIndex(demoFacts())
	for _, tok := range []string{"21433", "21,433", "21433.0"} {
		if _, ok := x.Lookup(tok); !ok {
			t.Fatalf("token %q did not resolve", tok)
		}
	}
}

func TestBuildIndexFirstFactWins(t *testing.T) {
	fs := facts.FactSet{Facts: []facts.Fact{
		{ID: "one", Value: 0.10, Source: "A"},
		{ID: "two", Value: 0.10, Source: "B"},
	}}
	x := BuildIndex(fs)
	e, ok := x.Lookup("0.10")
	if !ok || e.Source != "A" {
		t.Fatalf("expected first fact to own the rendering, got %+v ok=%v", e, ok)
	}
}

func TestRenderingsPercentUnit(t *testing.T) {
	// A fact recorded as "10%" must also answer for its fraction form.
	x := BuildIndex(facts.FactSet{Facts: []facts.Fact{
		{ID: "p", Value: 10, Unit: "%", Source: "S"},
	}})
	for _, tok := range []string{"10%", "10.0%", "0.1", "0.10"} {
		if _, ok := x.Lookup(tok); !ok {
			t.Fatalf("token %q did not resolve", tok)
		}
	}
}
