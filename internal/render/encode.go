package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/gpacalc/internal/report"
)

// Format is an output encoding for reports.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Valid reports whether f is a known report format.
func (f Format) Valid() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// JSON encodes r with two-space indentation and a trailing newline.
func JSON(r *report.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render.JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// YAML encodes r as a YAML document. Undefined metric values are written
// as .nan.
func YAML(r *report.Report) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("render.YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("render.YAML: %w", err)
	}
	return buf.String(), nil
}

// Report renders r in the given format.
func Report(r *report.Report, f Format) (string, error) {
	switch f {
	case FormatMarkdown:
		return Markdown(r), nil
	case FormatJSON:
		return JSON(r)
	case FormatYAML:
		return YAML(r)
	}
	return "", fmt.Errorf("render.Report: unknown format %q", f)
}
