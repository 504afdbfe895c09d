// ABOUTME: Read-only inspection of a serverless.yml document for display
// ABOUTME: Extracts service, provider and the ordered function names with yaml.v3

package repoconfig

import (
	"errors"
	"fmt"

	"github.com/optifuse/optifuse-cli/internal/models"
	"gopkg.in/yaml.v3"
)

// Summary describes the deployable units declared by a configuration document
type Summary struct {
	Service   string   `json:"service"`
	Provider  string   `json:"provider"`
	Runtime   string   `json:"runtime"`
	Region    string   `json:"region"`
	Functions []string `json:"functions"`
}

// Inspect parses doc and summarizes it. Inspection never changes the document
// and its result is informational only.
func Inspect(doc *models.ConfigDocument) (*Summary, error) {
	if doc == nil {
		return nil, errors.New("no configuration document")
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(doc.Content), &root); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", doc.Filename, err)
	}

	summary := &Summary{}
	top := documentMapping(&root)
	if top == nil {
		return summary, nil
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i].Value, top.Content[i+1]
		switch key {
		case "service":
			summary.Service = serviceName(value)
		case "provider":
			summary.Provider = scalarField(value, "name")
			summary.Runtime = scalarField(value, "runtime")
			summary.Region = scalarField(value, "region")
		case "functions":
			summary.Functions = mappingKeys(value)
		}
	}
	return summary, nil
}

// documentMapping returns the top-level mapping node, or nil
func documentMapping(root *yaml.Node) *yaml.Node {
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// serviceName handles both `service: name` and `service: {name: ...}`
func serviceName(node *yaml.Node) string {
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	return scalarField(node, "name")
}

func scalarField(node *yaml.Node, field string) string {
	if node.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == field && node.Content[i+1].Kind == yaml.ScalarNode {
			return node.Content[i+1].Value
		}
	}
	return ""
}

// mappingKeys returns the keys of a mapping in document order
func mappingKeys(node *yaml.Node) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}
