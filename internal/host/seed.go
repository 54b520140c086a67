package host

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teemow/slotkeeper/internal/schedule"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in week of mock host data.
func DefaultSeed() (*Days, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile reads a seed document from path.
func LoadSeedFile(path string) (*Days, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	days, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return days, nil
}

// ParseSeed decodes a YAML mapping of date -> slot -> status. Document order
// is kept for both dates and slots. Slot keys are normalized to HH:MM and
// empty statuses are rejected.
func ParseSeed(data []byte) (*Days, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	days := NewDays()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return days, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("seed must be a mapping of dates, got %s", nodeKind(root))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		dateNode, slotsNode := root.Content[i], root.Content[i+1]
		date := dateNode.Value
		if _, err := schedule.ParseDate(date); err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q", dateNode.Line, date)
		}
		if _, exists := days.Get(date); exists {
			return nil, fmt.Errorf("line %d: duplicate date %q", dateNode.Line, date)
		}

		slots, err := parseSeedSlots(slotsNode)
		if err != nil {
			return nil, fmt.Errorf("date %s: %w", date, err)
		}
		days.Set(date, slots)
	}

	return days, nil
}

func parseSeedSlots(node *yaml.Node) (*Slots, error) {
	slots := NewSlots()

	// An empty value ("2025-06-20:") is a date with no slots.
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return slots, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: slots must be a mapping, got %s", node.Line, nodeKind(node))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, statusNode := node.Content[i], node.Content[i+1]
		slot, err := schedule.NormalizeSlot(keyNode.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid time slot %q", keyNode.Line, keyNode.Value)
		}
		if statusNode.Kind != yaml.ScalarNode || statusNode.Value == "" {
			return nil, fmt.Errorf("line %d: slot %s needs a non-empty status", statusNode.Line, slot)
		}
		slots.Set(slot, statusNode.Value)
	}
	return slots, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
