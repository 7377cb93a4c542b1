package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawEntry is one top-level key of a knowledge document with its undecoded
// shape (map, string, list, ...).
type rawEntry struct {
	Key   string
	Value interface{}
}

// decodeDocument reads the top-level mapping of a knowledge document in
// document order. The format follows the file extension; anything that is not
// .yaml or .yml is read as JSON.
func decodeDocument(path string, data []byte) ([]rawEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read document start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top level must be an object, got %v", tok)
	}

	var entries []rawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		entries = append(entries, rawEntry{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read document end: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return entries, nil
}

func decodeYAML(data []byte) ([]rawEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping (line %d)", root.Line)
	}

	entries := make([]rawEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]

		var value interface{}
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode %q (line %d): %w", keyNode.Value, keyNode.Line, err)
		}
		entries = append(entries, rawEntry{Key: keyNode.Value, Value: value})
	}
	return entries, nil
}
