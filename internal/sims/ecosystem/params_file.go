package ecosystem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadParams reads a YAML parameter file and overlays it onto base. Keys
// missing from the file keep their base value; unknown keys are rejected.
func LoadParams(path string, base Params) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read params file: %w", err)
	}
	return ParseParams(data, base)
}

// ParseParams decodes YAML parameter data on top of base and validates it.
func ParseParams(data []byte, base Params) (Params, error) {
	out := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return Params{}, fmt.Errorf("%w: failed to parse params YAML: %v", ErrInvalidConfig, err)
	}
	if err := out.Validate(); err != nil {
		return Params{}, err
	}
	return out, nil
}

// UnmarshalYAML decodes a mapping keyed by stage name, e.g.
//
//	stages:
//	  medium: {reproduction_chance: 0.05}
//
// Fields not mentioned keep their current value; unknown fields are rejected.
func (t *StageTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("stages: expected a mapping, got %s", value.Tag)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		stage, ok := ParseStage(name)
		if !ok || !stage.Alive() {
			return fmt.Errorf("stages: unknown stage %q", name)
		}
		raw, err := yaml.Marshal(value.Content[i+1])
		if err != nil {
			return fmt.Errorf("stages.%s: %w", name, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&t[stage]); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("stages.%s: %w", name, err)
		}
	}
	return nil
}
