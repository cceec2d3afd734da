package io

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/antnest/pkg/graph"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r graph.Report) error {
	return graph.WriteReport(r, w)
}

// ReadJSON decodes a JSON report.
func ReadJSON(rd io.Reader) (graph.Report, error) {
	return graph.ReadReport(rd)
}

// WriteYAML writes r as YAML with two-space indentation.
func WriteYAML(w io.Writer, r graph.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a YAML report.
func ReadYAML(rd io.Reader) (graph.Report, error) {
	var r graph.Report
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return graph.Report{}, fmt.Errorf("decode: %w", err)
	}
	if err := r.Validate(); err != nil {
		return graph.Report{}, err
	}
	return r, nil
}

// MarshalYAML returns r as YAML bytes.
func MarshalYAML(r graph.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
