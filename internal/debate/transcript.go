package debate

import (
	"fmt"
	"sort"
	"time"
)

// Turn is one append-only transcript record: phase, speaker, content, with a
// monotonic sequence number and the elapsed time at which it was recorded.
type Turn struct {
	Seq     int           `json:"seq"`
	Phase   Phase         `json:"phase"`
	Speaker string        `json:"speaker"`
	Content string        `json:"content"`
	Elapsed time.Duration `json:"elapsed"`
}

// Transcript is the debate record for one request. Only the orchestrator
// writes to it, so no locking is needed; concurrent capability calls get
// sequence numbers reserved at call time and are merged back after fan-in.
// The transcript stays in memory for the whole request; it is the sole input
// to emergency synthesis.
type Transcript struct {
	turns   []Turn
	nextSeq int
}

func NewTranscript() *Transcript { return &Transcript{} }

// NextSeq reserves the next sequence number. Reserving at call time (not
// completion time) keeps phase-relative ordering deterministic for replay.
func (t *Transcript) NextSeq() int {
	s := t.nextSeq
	t.nextSeq++
	return s
}

// Record inserts a turn, keeping the slice ordered by sequence number even
// when fan-in delivers reserved turns out of order.
func (t *Transcript) Record(turn Turn) {
	i := sort.Search(len(t.turns), func(i int) bool { return t.turns[i].Seq >= turn.Seq })
	t.turns = append(t.turns, Turn{})
	copy(t.turns[i+1:], t.turns[i:])
	t.turns[i] = turn
}

// Append reserves a sequence number and records in one step, for the
// sequential phases.
func (t *Transcript) Append(phase Phase, speaker, content string, elapsed time.Duration) Turn {
	turn := Turn{Seq: t.NextSeq(), Phase: phase, Speaker: speaker, Content: content, Elapsed: elapsed}
	t.Record(turn)
	return turn
}

func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.turns)
}

// Turns returns a copy of the ordered transcript.
func (t *Transcript) Turns() []Turn {
	if t == nil {
		return nil
	}
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// LastN returns the most recent n turns, oldest first.
func (t *Transcript) LastN(n int) []Turn {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.turns) {
		n = len(t.turns)
	}
	out := make([]Turn, n)
	copy(out, t.turns[len(t.turns)-n:])
	return out
}

// Excerpts renders the most recent n turns as "phase/speaker: content" lines
// for feeding back into capability calls.
func (t *Transcript) Excerpts(n int) []string {
	turns := t.LastN(n)
	out := make([]string, 0, len(turns))
	for _, turn := range turns {
		out = append(out, fmt.Sprintf("%s/%s: %s", turn.Phase, turn.Speaker, turn.Content))
	}
	return out
}
