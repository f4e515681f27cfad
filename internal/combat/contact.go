package combat

import (
	"github.com/pixil98/go-arena/internal/arena"
)

// HitRadius is the distance within which a contact strikes the local player.
const HitRadius = 1.5

// Hit describes a contact that struck the local player.
type Hit struct {
	ProjectileID string
	TargetID     string
	AttackerID   string
	Damage       int
}

// ResolveContact decides whether a contact of projectileID at pos strikes the
// local player of snap. The player must be alive, the contact must be within
// HitRadius of them, the projectile must still be live and it must belong to
// someone else.
func ResolveContact(snap arena.Snapshot, projectileID string, pos arena.Vec3) (Hit, bool) {
	lp := snap.LocalPlayer
	if lp == nil || !lp.Alive {
		return Hit{}, false
	}
	if lp.Position.Distance(pos) >= HitRadius {
		return Hit{}, false
	}

	proj, ok := snap.Projectile(projectileID)
	if !ok || proj.OwnerID == lp.ID {
		return Hit{}, false
	}

	return Hit{
		ProjectileID: proj.ID,
		TargetID:     lp.ID,
		AttackerID:   proj.OwnerID,
		Damage:       proj.Damage,
	}, true
}
