package citation

import (
	"strings"
	"testing"
)

func TestVerifyAllIndexed(t *testing.T) {
	x := BuildIndex(demoFacts())
	narrative := "The unemployment rate is 0.10 by one estimate. Another estimate puts it at 12%."
	res := x.Verify(narrative)
	if res.Violations != 0 {
		t.Fatalf("violations: got %d want 0", res.Violations)
	}
	if len(res.Unverified) != 0 {
		t.Fatalf("unexpected unverified tokens: %v", res.Unverified)
	}
	if res.Annotated != narrative {
		t.Fatalf("annotated text changed: %q", res.Annotated)
	}
}

func TestVerifyUnindexedNumber(t *testing.T) {
	x := BuildIndex(demoFacts())
	res := x.Verify("The unemployment rate is 0.37 according to one model.")
	if res.Violations < 1 {
		t.Fatalf("violations: got %d want >= 1", res.Violations)
	}
	if len(res.Unverified) != 1 || res.Unverified[0] != "0.37" {
		t.Fatalf("unverified: %v", res.Unverified)
	}
	if !strings.Contains(res.Annotated, "0.37(unverified)") {
		t.Fatalf("token not annotated: %q", res.Annotated)
	}
}

func TestVerifyMixedSentence(t *testing.T) {
	// One resolved token in the sentence means no violation, but the stray
	// number is still annotated.
	x := BuildIndex(demoFacts())
	res := x.Verify("The rate is 0.10, though one outlier claims 0.55.")
	if res.Violations != 0 {
		t.Fatalf("violations: got %d want 0", res.Violations)
	}
	if len(res.Unverified) != 1 || res.Unverified[0] != "0.55" {
		t.Fatalf("unverified: %v", res.Unverified)
	}
}

func TestVerifyCountsPerSentence(t *testing.T) {
	x := BuildIndex(demoFacts())
	res := x.Verify("Growth was 3.7 last year. Inflation hit 9.9 too. The rate is 0.10.")
	if res.Violations != 2 {
		t.Fatalf("violations: got %d want 2", res.Violations)
	}
}

func TestVerifyNoNumbers(t *testing.T) {
	x := BuildIndex(demoFacts())
	res := x.Verify("No quantities appear in this sentence at all.")
	if res.Violations != 0 || len(res.Unverified) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestVerifyEmptyNarrative(t *testing.T) {
	x := BuildIndex(demoFacts())
	res := x.Verify("   ")
	if res.Violations != 0 {
		t.Fatalf("violations on empty text: %d", res.Violations)
	}
}
