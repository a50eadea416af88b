package facts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Fact is one raw numeric observation supplied by the data-fetch layer.
type Fact struct {
	ID     string  `json:"id"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"` // "" (plain), "%", "usd", ...
	Source string  `json:"source"`
	Period string  `json:"period"`
}

// FactSet is the raw material for one request: everything the agents are
// allowed to cite.
type FactSet struct {
	Topic string `json:"topic,omitempty"`
	Facts []Fact `json:"facts"`
}

// Empty reports whether the set carries no usable facts.
func (fs FactSet) Empty() bool { return len(fs.Facts) == 0 }

// ByMetric groups facts under their (verbatim) metric key.
func (fs FactSet) ByMetric() map[string][]Fact {
	out := make(map[string][]Fact, len(fs.Facts))
	for _, f := range fs.Facts {
		k := strings.TrimSpace(f.Metric)
		out[k] = append(out[k], f)
	}
	return out
}

// LoadFile reads a FactSet from a JSON file.
func LoadFile(path string) (FactSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FactSet{}, err
	}
	var fs FactSet
	if err := json.Unmarshal(b, &fs); err != nil {
		return FactSet{}, fmt.Errorf("facts: parse %s: %w", path, err)
	}
	return fs, nil
}
