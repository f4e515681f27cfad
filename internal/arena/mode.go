package arena

import "fmt"

// GameMode selects which collaborator is active: the menu or the simulated world.
type GameMode string

const (
	ModeMenu    GameMode = "menu"
	ModeLobby   GameMode = "lobby"
	ModePlaying GameMode = "playing"
	ModePaused  GameMode = "paused"
)

// Active reports whether the simulation entities are meaningful in this mode.
func (m GameMode) Active() bool {
	return m == ModePlaying || m == ModePaused
}

func (m GameMode) String() string {
	return string(m)
}

func (m *GameMode) UnmarshalText(text []byte) error {
	switch GameMode(text) {
	case ModeMenu, ModeLobby, ModePlaying, ModePaused:
		*m = GameMode(text)
	default:
		return fmt.Errorf("unknown game mode: %s", text)
	}
	return nil
}

func (m GameMode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}
