// Package report renders analysis results as human-readable text or as
// machine-readable JSON/YAML documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
	"gopkg.in/yaml.v3"
)

// Format selects the renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "txt", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("report: unknown format %q (want text, json or yaml)", name)
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *analysis.Result, format Format, source string) error {
	doc := NewDocument(r, source)

	var data []byte
	var err error
	switch format {
	case FormatText:
		data = []byte(Text(doc))
	case FormatJSON:
		data, err = ExportJSON(doc)
	case FormatYAML:
		data, err = ExportYAML(doc)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// ExportJSON encodes doc as indented JSON and checks it against the report
// schema.
func ExportJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export JSON: %w", err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ExportYAML encodes doc as YAML.
func ExportYAML(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to export YAML: %w", err)
	}
	return data, nil
}
