package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a YAML schema graph and validates it
func Decode(r io.Reader) (*Graph, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode schema graph: %w", err)
	}
	return NewGraph(f.Tables)
}

// LoadFile reads a YAML schema graph from disk.
// An empty path selects the built-in TPC-H graph.
func LoadFile(path string) (*Graph, error) {
	if path == "" {
		return TPCH(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer func() { _ = f.Close() }()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file %s: %w", path, err)
	}
	return g, nil
}
