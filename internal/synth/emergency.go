package synth

import (
	"fmt"
	"strings"

	"concord/internal/capability"
	"concord/internal/debate"
)

// argumentsPerSpeaker bounds how many transcript turns represent each speaker
// in an emergency report.
const argumentsPerSpeaker = 2

// Emergency assembles a reduced report straight from the transcript: the
// first turns per speaker as representative arguments plus whatever rulings
// were captured before time ran out. It never fails; an empty transcript
// yields a minimal no-analysis report.
func (s *Synthesizer) Emergency(question string, out debate.Outcome) Report {
	rep := Report{
		Question:   question,
		Emergency:  true,
		Confidence: EmergencyConfidence,
	}

	if out.Transcript == nil || out.Transcript.Len() == 0 {
		rep.Summary = "No analysis completed: the time budget expired before any deliberation turn was recorded."
		rep.Confidence = 0
		return rep
	}

	counts := make(map[string]int)
	for _, turn := range out.Transcript.Turns() {
		if counts[turn.Speaker] >= argumentsPerSpeaker {
			continue
		}
		counts[turn.Speaker]++
		rep.Arguments = append(rep.Arguments, Argument{
			Speaker: turn.Speaker,
			Phase:   string(turn.Phase),
			Content: turn.Content,
		})
	}

	for _, c := range out.Contradictions {
		res, ok := out.Resolutions[c.Key()]
		if !ok || res.Action == capability.ActionFlagForReview {
			reason := "deliberation interrupted before arbitration"
			if ok {
				reason = res.Explanation
			}
			rep.Flagged = append(rep.Flagged, FlaggedContradiction{
				Metric: c.Metric,
				AgentA: c.AgentA, AgentB: c.AgentB,
				ValueA: c.ValueA, ValueB: c.ValueB,
				Delta:  c.Delta,
				Reason: reason,
			})
			continue
		}
		rep.Resolved = append(rep.Resolved, ResolvedMetric{
			Metric:      c.Metric,
			Action:      res.Action,
			Value:       res.RecommendedValue,
			Explanation: res.Explanation,
			Confidence:  res.Confidence,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Partial analysis (confidence %.2f): the time budget expired after %d deliberation turns.\n",
		EmergencyConfidence, out.Transcript.Len())
	fmt.Fprintf(&b, "Question: %s\n", question)
	for _, a := range rep.Arguments {
		fmt.Fprintf(&b, "- %s (%s): %s\n", a.Speaker, a.Phase, a.Content)
	}
	fmt.Fprintf(&b, "Captured rulings: %d; contradictions still open: %d.",
		len(rep.Resolved), len(rep.Flagged))
	rep.Summary = b.String()
	return rep
}
