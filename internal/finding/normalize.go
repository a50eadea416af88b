package finding

import "strings"

// defaultSynonyms maps common metric-name variants to a canonical key.
// Callers can extend or replace the table via Detector.Synonyms.
var defaultSynonyms = map[string]string{
	"jobless_rate":       "unemployment_rate",
	"unemployment":       "unemployment_rate",
	"u3":                 "unemployment_rate",
	"cpi":                "inflation_rate",
	"inflation":          "inflation_rate",
	"price_growth":       "inflation_rate",
	"gdp":                "gdp_growth",
	"gdp_growth_rate":    "gdp_growth",
	"economic_growth":    "gdp_growth",
	"interest_rate":      "policy_rate",
	"base_rate":          "policy_rate",
	"federal_funds_rate": "policy_rate",
}

// CanonicalMetric normalizes a metric name: lowercase, separators collapsed
// to underscores, then synonym mapping.
func CanonicalMetric(name string, synonyms map[string]string) string {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(k)
	for strings.Contains(k, "__") {
		k = strings.ReplaceAll(k, "__", "_")
	}
	if synonyms != nil {
		if canon, ok := synonyms[k]; ok {
			return canon
		}
	}
	if canon, ok := defaultSynonyms[k]; ok {
		return canon
	}
	return k
}
