package finding

// MetricValue is a numeric-or-range observation a finding asserts for one
// metric, optionally tagged with the period and methodology it was measured
// under.
type MetricValue struct {
	Value       float64  `json:"value"`
	Low         *float64 `json:"low,omitempty"`
	High        *float64 `json:"high,omitempty"`
	Period      string   `json:"period,omitempty"`
	Methodology string   `json:"methodology,omitempty"`
}

// Point returns the comparable scalar for this observation: the midpoint when
// a range is given, otherwise the value.
func (m MetricValue) Point() float64 {
	if m.Low != nil && m.High != nil {
		return (*m.Low + *m.High) / 2
	}
	return m.Value
}

// Finding is one agent's self-contained analytical output. It is immutable
// once emitted; the orchestrator owns it for the duration of one request.
type Finding struct {
	AgentID    string                 `json:"agent_id"`
	Narrative  string                 `json:"narrative"`
	Metrics    map[string]MetricValue `json:"metrics"`
	Citations  []string               `json:"citations,omitempty"`
	Confidence float64                `json:"confidence"`
}

// Contradiction records that two findings report materially different values
// for the same canonical metric. Derived per request, never stored beyond it.
type Contradiction struct {
	Metric string  `json:"metric"` // canonical key
	AgentA string  `json:"agent_a"`
	AgentB string  `json:"agent_b"`
	ValueA float64 `json:"value_a"`
	ValueB float64 `json:"value_b"`
	Delta  float64 `json:"delta"` // relative difference
}

// Key identifies a contradiction within a request: one arbitration per key.
func (c Contradiction) Key() string {
	return c.Metric + "|" + c.AgentA + "|" + c.AgentB
}
