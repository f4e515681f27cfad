package arena

import "time"

// Player is a combatant. Health stays within [0, MaxHealth] and Alive is
// true exactly when Health is positive.
type Player struct {
	ID         string    `json:"id" msgpack:"id"`
	Name       string    `json:"name" msgpack:"name"`
	Position   Vec3      `json:"position" msgpack:"position"`
	Rotation   Vec3      `json:"rotation" msgpack:"rotation"`
	Health     int       `json:"health" msgpack:"health"`
	MaxHealth  int       `json:"max_health" msgpack:"maxHealth"`
	KillStreak int       `json:"kill_streak" msgpack:"killStreak"`
	Alive      bool      `json:"alive" msgpack:"alive"`
	LastDamage time.Time `json:"last_damage" msgpack:"lastDamage"`
}

// EverDamaged reports whether LastDamage holds a real timestamp.
func (p Player) EverDamaged() bool {
	return !p.LastDamage.IsZero()
}

// Projectile is a thrown rock. It never changes after creation; the physics
// collaborator integrates its motion externally.
type Projectile struct {
	ID        string    `json:"id" msgpack:"id"`
	Origin    Vec3      `json:"origin" msgpack:"origin"`
	Velocity  Vec3      `json:"velocity" msgpack:"velocity"`
	OwnerID   string    `json:"owner_id" msgpack:"ownerId"`
	Damage    int       `json:"damage" msgpack:"damage"`
	CreatedAt time.Time `json:"created_at" msgpack:"createdAt"`
}

// Age returns how long the projectile has existed at now.
func (p Projectile) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}
