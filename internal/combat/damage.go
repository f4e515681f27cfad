package combat

import (
	"time"

	"github.com/pixil98/go-arena/internal/arena"
)

// ApplyDamage returns p after taking amount damage from attackerID at now.
// The player is returned unchanged when targetID is not p, when p is already
// dead, when the attacker is the target itself, or when amount is negative. A
// zero amount only records the hit time. Reaching zero health kills the player
// and resets the kill streak.
func ApplyDamage(p arena.Player, targetID, attackerID string, amount int, now time.Time) arena.Player {
	if p.ID != targetID || !p.Alive || attackerID == targetID || amount < 0 {
		return p
	}

	p.Health = max(0, p.Health-amount)
	if p.Health == 0 {
		p.Alive = false
		p.KillStreak = 0
	}
	p.LastDamage = now
	return p
}

var damageMessages = []struct {
	maxDamage int
	verb3rd   string // "{attacker} {verb} {target}!"
}{
	{0, "misses"},
	{5, "grazes"},
	{10, "clips"},
	{20, "hits"},
	{30, "smacks"},
	{50, "crushes"},
	{80, "flattens"},
}

// DamageVerb returns the 3rd person verb for a damage amount.
func DamageVerb(damage int) string {
	for _, msg := range damageMessages {
		if damage <= msg.maxDamage {
			return msg.verb3rd
		}
	}
	return "obliterates"
}
