package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pixil98/go-arena/internal/arena"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML settings file. Keys may be omitted; only the ones
// present are returned in the patch.
func LoadFile(path string) (arena.SettingsPatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return arena.SettingsPatch{}, fmt.Errorf("reading settings: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (arena.SettingsPatch, error) {
	var patch arena.SettingsPatch

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		return arena.SettingsPatch{}, fmt.Errorf("parsing settings: %w", err)
	}

	if err := patch.Validate(); err != nil {
		return arena.SettingsPatch{}, fmt.Errorf("validating settings: %w", err)
	}

	return patch, nil
}
