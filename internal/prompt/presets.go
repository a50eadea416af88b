package prompt

// Preset holds reusable constraints and rules for structured prompts.
type Preset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a spec.
func ApplyPresets(spec Spec, presets ...Preset) Spec {
	if len(presets) == 0 {
		return spec
	}
	var merged Preset
	for _, p := range presets {
		merged.Constraints = append(merged.Constraints, p.Constraints...)
		merged.Rules = append(merged.Rules, p.Rules...)
	}
	spec.Constraints = append(merged.Constraints, spec.Constraints...)
	spec.Rules = append(merged.Rules, spec.Rules...)
	return spec
}

// PresetStrictJSON enforces strict JSON-only output.
func PresetStrictJSON() Preset {
	return Preset{
		Constraints: []string{
			"Return strict JSON only.",
			"Match the schema exactly; no extra fields.",
			"No markdown, comments, or trailing commas.",
		},
	}
}

// PresetNoFabrication forbids numbers that do not trace to the supplied facts.
func PresetNoFabrication() Preset {
	return Preset{
		Constraints: []string{
			"Do not invent figures, sources, or periods; use only the provided facts.",
			"Every numeric claim must repeat a value present in the input facts verbatim.",
		},
	}
}

// PresetCautious encourages explicit uncertainty.
func PresetCautious() Preset {
	return Preset{
		Rules: []string{
			"Avoid guessing; if unsure, make uncertainty explicit (notes, assumptions, or lowered confidence).",
		},
	}
}
