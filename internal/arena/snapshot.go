package arena

// Snapshot is the complete authoritative state at one instant. A Snapshot
// is never modified once published; transitions build a new one.
type Snapshot struct {
	Mode          GameMode     `json:"mode" msgpack:"mode"`
	LocalPlayer   *Player      `json:"local_player,omitempty" msgpack:"localPlayer,omitempty"`
	RemotePlayers []Player     `json:"remote_players,omitempty" msgpack:"remotePlayers,omitempty"`
	Projectiles   []Projectile `json:"projectiles" msgpack:"projectiles"`
	Settings      Settings     `json:"settings" msgpack:"settings"`
}

// NewSnapshot returns the state a session starts in.
func NewSnapshot(settings Settings) Snapshot {
	return Snapshot{
		Mode:        ModeMenu,
		Projectiles: []Projectile{},
		Settings:    settings,
	}
}

// IsLocal reports whether id names the current local player.
func (s Snapshot) IsLocal(id string) bool {
	return s.LocalPlayer != nil && s.LocalPlayer.ID == id
}

// Projectile looks up a live projectile by id.
func (s Snapshot) Projectile(id string) (Projectile, bool) {
	for _, p := range s.Projectiles {
		if p.ID == id {
			return p, true
		}
	}
	return Projectile{}, false
}

// WithoutProjectile returns a new collection with the given id removed.
func (s Snapshot) WithoutProjectile(id string) []Projectile {
	out := make([]Projectile, 0, len(s.Projectiles))
	for _, p := range s.Projectiles {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
