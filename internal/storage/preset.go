package storage

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-errors"
)

// Preset is a named settings patch operators can apply to a running match.
type Preset struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Settings    arena.SettingsPatch `json:"settings"`
}

func (p *Preset) Validate() error {
	if p == nil {
		return fmt.Errorf("preset must be set")
	}

	el := errors.NewErrorList()

	if p.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	if p.Settings.Empty() {
		el.Add(fmt.Errorf("settings must change at least one value"))
	}

	el.Add(p.Settings.Validate())

	return el.Err()
}

type PresetStore = FileStore[*Preset]

func NewPresetStore(path string) (*PresetStore, error) {
	return NewFileStore[*Preset](path)
}

var _ Storer[*Preset] = (*PresetStore)(nil)
