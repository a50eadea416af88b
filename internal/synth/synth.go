package synth

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"concord/internal/capability"
	"concord/internal/citation"
	"concord/internal/debate"
)

// materialDrop is the confidence drop beyond which applying a critique
// adjustment is considered to change the conclusion and gets logged.
const materialDrop = 0.3

// Synthesizer assembles the final report from whatever the deliberation
// produced. It performs no external calls, so it always fits inside the
// reserved tail of the budget.
type Synthesizer struct {
	Index *citation.Index
	Log   *zap.Logger
}

func (s *Synthesizer) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Synthesize is the normal path: verified findings, arbitrated resolutions,
// and advisory critique folded into one structured report.
func (s *Synthesizer) Synthesize(question string, out debate.Outcome, critiques map[string]capability.CritiqueItem) Report {
	log := s.logger()
	rep := Report{Question: question}

	var confSum float64
	var confN int
	for _, f := range out.Findings {
		conf := f.Confidence
		adjusted := false
		if item, ok := critiques[f.AgentID]; ok && item.ConfidenceAdjustment != nil {
			adj := *item.ConfidenceAdjustment
			if f.Confidence-adj > materialDrop {
				log.Warn("critique adjustment materially lowers confidence",
					zap.String("agent", f.AgentID),
					zap.Float64("original", f.Confidence),
					zap.Float64("adjusted", adj))
			}
			conf = adj
			adjusted = true
		}
		rep.KeyFindings = append(rep.KeyFindings, KeyFinding{
			AgentID:    f.AgentID,
			Narrative:  s.verify(&rep, f.Narrative),
			Confidence: conf,
			Adjusted:   adjusted,
		})
		confSum += conf
		confN++
	}

	for _, c := range out.Contradictions {
		res, ok := out.Resolutions[c.Key()]
		switch {
		case !ok:
			rep.Flagged = append(rep.Flagged, FlaggedContradiction{
				Metric: c.Metric,
				AgentA: c.AgentA, AgentB: c.AgentB,
				ValueA: c.ValueA, ValueB: c.ValueB,
				Delta:  c.Delta,
				Reason: "no arbitration ruling",
			})
		case res.Action == capability.ActionFlagForReview:
			rep.Flagged = append(rep.Flagged, FlaggedContradiction{
				Metric: c.Metric,
				AgentA: c.AgentA, AgentB: c.AgentB,
				ValueA: c.ValueA, ValueB: c.ValueB,
				Delta:  c.Delta,
				Reason: s.verify(&rep, res.Explanation),
			})
		default:
			if res.RecommendedValue != 0 {
				tok := strconv.FormatFloat(res.RecommendedValue, 'f', -1, 64)
				if _, ok := s.Index.Lookup(tok); !ok {
					rep.CitationViolations++
					rep.Unverified = append(rep.Unverified, tok)
					log.Warn("ruling recommends a value with no traceable source",
						zap.String("metric", c.Metric),
						zap.Float64("value", res.RecommendedValue))
				}
			}
			rep.Resolved = append(rep.Resolved, ResolvedMetric{
				Metric:      c.Metric,
				Action:      res.Action,
				Value:       res.RecommendedValue,
				Explanation: s.verify(&rep, res.Explanation),
				Confidence:  res.Confidence,
			})
			confSum += res.Confidence
			confN++
		}
	}

	for _, id := range sortedKeys(critiques) {
		item := critiques[id]
		rep.Critique = append(rep.Critique, CritiqueNote{
			AgentID:         item.AgentID,
			Weakness:        item.Weakness,
			CounterArgument: item.CounterArgument,
			Severity:        item.Severity,
			RobustnessScore: item.RobustnessScore,
		})
	}

	if confN > 0 {
		rep.Confidence = confSum / float64(confN)
	}
	rep.Summary = s.summary(question, out, rep)
	return rep
}

// verify folds one narrative's citation check into the report tallies and
// returns the annotated text. Every piece of report-bound prose (finding
// narratives, ruling explanations, flag reasons) goes through here.
func (s *Synthesizer) verify(rep *Report, text string) string {
	vr := s.Index.Verify(text)
	rep.CitationViolations += vr.Violations
	rep.Unverified = append(rep.Unverified, vr.Unverified...)
	return vr.Annotated
}

// summary builds the executive narrative mechanically from report sections;
// numbers it quotes come from findings and rulings already verified above.
func (s *Synthesizer) summary(question string, out debate.Outcome, rep Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Deliberated by %d expert findings", len(out.Findings))
	if len(out.FailedAgents) > 0 {
		fmt.Fprintf(&b, " (%d agents unavailable: %s)",
			len(out.FailedAgents), strings.Join(out.FailedAgents, ", "))
	}
	fmt.Fprintf(&b, " across %d transcript turns at tier %s.\n", out.Transcript.Len(), out.Tier)
	if out.Cut {
		b.WriteString("Later deliberation phases were cut short by the time budget.\n")
	}
	fmt.Fprintf(&b, "Contradictions: %d detected, %d resolved, %d flagged for review.\n",
		len(out.Contradictions), len(rep.Resolved), len(rep.Flagged))
	for _, r := range rep.Resolved {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Metric, r.Action, r.Explanation)
	}
	for _, f := range rep.Flagged {
		fmt.Fprintf(&b, "- %s: flagged (%s)\n", f.Metric, f.Reason)
	}
	if rep.CitationViolations > 0 {
		fmt.Fprintf(&b, "Citation violations: %d sentence(s) contain quantities with no traceable source.\n",
			rep.CitationViolations)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedKeys(m map[string]capability.CritiqueItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
