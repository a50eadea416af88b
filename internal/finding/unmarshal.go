package finding

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON accepts the three shapes models actually emit for a metric:
// a bare number, a [low, high] pair, or the full object form.
func (m *MetricValue) UnmarshalJSON(b []byte) error {
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*m = MetricValue{Value: num}
		return nil
	}
	var pair []float64
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("metric range must have 2 elements, got %d", len(pair))
		}
		lo, hi := pair[0], pair[1]
		*m = MetricValue{Low: &lo, High: &hi, Value: (lo + hi) / 2}
		return nil
	}
	type alias MetricValue
	var obj alias
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*m = MetricValue(obj)
	return nil
}
