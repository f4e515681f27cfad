package combat

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-arena/internal/arena"
)

// ProjectileTTL is how long a projectile may live before the expiry sweep drops it.
const ProjectileTTL = 5 * time.Second

// SpawnProjectile creates a projectile with a fresh identity stamped at now.
func SpawnProjectile(origin, velocity arena.Vec3, ownerID string, damage int, now time.Time) arena.Projectile {
	return arena.Projectile{
		ID:        uuid.New().String(),
		Origin:    origin,
		Velocity:  velocity,
		OwnerID:   ownerID,
		Damage:    damage,
		CreatedAt: now,
	}
}

// Expire returns the projectiles younger than ttl at now, and whether any
// were dropped. The input slice is never modified.
func Expire(projectiles []arena.Projectile, now time.Time, ttl time.Duration) ([]arena.Projectile, bool) {
	kept := make([]arena.Projectile, 0, len(projectiles))
	for _, p := range projectiles {
		if p.Age(now) < ttl {
			kept = append(kept, p)
		}
	}
	return kept, len(kept) != len(projectiles)
}

// AimThrow computes the launch origin and velocity of a rock thrown from
// position while looking along yaw (about Y) and pitch (about X), in radians.
// Forward is -Z. The rock leaves two units ahead and one unit above the thrower.
func AimThrow(position arena.Vec3, yaw, pitch, throwForce float64) (origin, velocity arena.Vec3) {
	// forward rotated about Y
	dir := arena.Vec3{X: -math.Sin(yaw), Y: 0, Z: -math.Cos(yaw)}
	// then about X
	sp, cp := math.Sin(pitch), math.Cos(pitch)
	dir = arena.Vec3{
		X: dir.X,
		Y: dir.Y*cp - dir.Z*sp,
		Z: dir.Y*sp + dir.Z*cp,
	}
	dir = dir.Normalize()
	velocity = dir.Scale(throwForce)

	origin = arena.Vec3{
		X: position.X + dir.X*2,
		Y: position.Y + 1,
		Z: position.Z + dir.Z*2,
	}
	return origin, velocity
}
