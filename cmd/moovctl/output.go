package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use %s or %s", format, outputJSON, outputYAML)
	}
}

// writeOutput renders v in the requested format. YAML keys follow the JSON
// field names of the API models.
func writeOutput(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	// JSON is valid YAML, and decoding into a node keeps the key order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("converting output to yaml: %w", err)
	}
	styleBlock(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("encoding yaml output: %w", err)
	}
	return enc.Close()
}

// styleBlock clears the flow style inherited from the JSON source so the
// output uses ordinary block YAML.
func styleBlock(node *yaml.Node) {
	node.Style &^= yaml.FlowStyle
	if node.Kind == yaml.ScalarNode {
		node.Style &^= yaml.DoubleQuotedStyle
	}
	for _, child := range node.Content {
		styleBlock(child)
	}
}
