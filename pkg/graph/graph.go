package graph

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Format is a graph document encoding.
type Format string

// Supported graph formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
// .json is JSON; .yaml and .yml are YAML; anything else is UNSUPPORTED.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported graph file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph encodes g in the given format.
func MarshalGraph(g Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes and validates a graph.
func UnmarshalGraph(data []byte, format Format) (Graph, error) {
	return ReadGraph(bytes.NewReader(data), format)
}

// WriteGraph writes g to w. JSON output is indented by two spaces.
func WriteGraph(g Graph, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return nil
}

// ReadGraph decodes a graph from r and validates it.
func ReadGraph(r io.Reader, format Format) (Graph, error) {
	var g Graph
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&g)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&g)
	default:
		return Graph{}, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	if err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s graph", format)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// ReadGraphFile reads a graph file, choosing the format by extension.
func ReadGraphFile(path string) (Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Graph{}, err
	}
	f, err := openFile(path)
	if err != nil {
		return Graph{}, err
	}
	defer f.Close()
	return ReadGraph(f, format)
}

// WriteGraphFile writes a graph file, choosing the format by extension.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f, format)
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
