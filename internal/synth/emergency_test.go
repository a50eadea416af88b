package synth

import (
	"strings"
	"testing"

	"concord/internal/debate"
)

func TestEmergencyGroupsArgumentsBySpeaker(t *testing.T) {
	out := testOutcome()
	// Extra turns beyond the per-speaker cap must be dropped.
	out.Transcript.Append(debate.PhaseChallengeDefense, "arbiter", "round one", 0)
	out.Transcript.Append(debate.PhaseChallengeDefense, "arbiter", "round two", 0)
	out.Transcript.Append(debate.PhaseChallengeDefense, "arbiter", "round three", 0)

	s := &Synthesizer{}
	rep := s.Emergency("q", out)

	if !rep.Emergency {
		t.Fatalf("emergency flag not set")
	}
	if rep.Confidence != EmergencyConfidence {
		t.Fatalf("confidence: %v", rep.Confidence)
	}
	perSpeaker := map[string]int{}
	for _, a := range rep.Arguments {
		perSpeaker[a.Speaker]++
	}
	if perSpeaker["a"] != 1 || perSpeaker["b"] != 1 || perSpeaker["arbiter"] != 2 {
		t.Fatalf("arguments per speaker: %v", perSpeaker)
	}
	if !strings.Contains(rep.Summary, "Partial analysis") {
		t.Fatalf("summary: %q", rep.Summary)
	}
	if len(rep.Resolved) != 1 {
		t.Fatalf("captured rulings: %+v", rep.Resolved)
	}
}

func TestEmergencyCarriesUnresolvedContradictions(t *testing.T) {
	out := testOutcome()
	out.Resolutions = nil
	s := &Synthesizer{}
	rep := s.Emergency("q", out)
	if len(rep.Flagged) != 1 || rep.Flagged[0].Reason != "deliberation interrupted before arbitration" {
		t.Fatalf("flagged: %+v", rep.Flagged)
	}
}

func TestEmergencyEmptyTranscriptNeverFails(t *testing.T) {
	s := &Synthesizer{}
	rep := s.Emergency("q", debate.Outcome{Transcript: debate.NewTranscript()})
	if !rep.Emergency {
		t.Fatalf("emergency flag not set")
	}
	if rep.Summary == "" || !strings.Contains(rep.Summary, "No analysis completed") {
		t.Fatalf("summary: %q", rep.Summary)
	}

	rep = s.Emergency("q", debate.Outcome{})
	if !rep.Emergency || rep.Summary == "" {
		t.Fatalf("nil transcript: %+v", rep)
	}
}
