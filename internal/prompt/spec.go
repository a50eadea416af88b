package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field describes a single output field in a simple schema.
type Field struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// Spec defines the sections for a structured prompt.
type Spec struct {
	Purpose      string
	Background   string
	OutputFields []Field
	Constraints  []string
	Rules        []string
	Assumptions  []string
	OutputFormat string
	Language     string
}

// Build renders the spec plus the call input into a single prompt string.
func (s Spec) Build(input any) (string, error) {
	if strings.TrimSpace(s.Purpose) == "" {
		return "", fmt.Errorf("prompt: purpose is empty")
	}
	if len(s.OutputFields) == 0 {
		return "", fmt.Errorf("prompt: output fields are empty")
	}
	inputJSON, err := formatAnyJSON(input)
	if err != nil {
		return "", fmt.Errorf("prompt: encode input: %w", err)
	}

	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", s.Purpose)
	writeSection(&buf, "BACKGROUND", s.Background)
	writeSection(&buf, "INPUT", inputJSON)
	writeSection(&buf, "OUTPUT", formatFields(s.OutputFields))
	writeSection(&buf, "CONSTRAINTS", formatList(s.Constraints))
	writeSection(&buf, "RULES", formatList(s.Rules))
	writeSection(&buf, "ASSUMPTIONS", formatList(s.Assumptions))
	writeSection(&buf, "OUTPUT_FORMAT", s.OutputFormat)
	writeSection(&buf, "LANGUAGE", s.Language)

	return strings.TrimSpace(buf.String()) + "\n", nil
}

func formatAnyJSON(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		if f.Description != "" {
			fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", name, f.Type, req, f.Description)
		} else {
			fmt.Fprintf(&buf, "- %s (%s, %s)\n", name, f.Type, req)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", title, body)
}
