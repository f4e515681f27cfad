package physics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/clock"
	"github.com/pixil98/go-arena/internal/session"
)

const (
	collisionTypeRock cp.CollisionType = iota + 1
	collisionTypePlayer
	collisionTypeWall
)

const (
	RockRadius      = 0.2
	PlayerRadius    = 0.5
	ArenaHalfExtent = 60.0
	Gravity         = 9.81
	DefaultStep     = time.Second / 60
)

// ContactHandler receives contact events.
type ContactHandler interface {
	OnContact(ctx context.Context, projectileID string, pos arena.Vec3) error
}

// SnapshotReader provides the latest simulation state.
type SnapshotReader interface {
	Snapshot() arena.Snapshot
}

type rock struct {
	proj     arena.Projectile
	body     *cp.Body
	shape    *cp.Shape
	grounded bool
}

type contact struct {
	projectileID string
	pos          arena.Vec3
}

// World is a headless contact source. Live projectiles are mirrored into a
// Chipmunk space on the ground (X/Z) plane while their height follows a
// ballistic arc. Contacts with the local player, the arena walls and the
// ground are reported to the handler; the world never mutates the simulation.
type World struct {
	mu sync.Mutex

	reader  SnapshotReader
	handler ContactHandler
	clock   clock.Clock
	step    time.Duration

	space       *cp.Space
	player      *cp.Body
	rocks       map[string]*rock
	shapeToRock map[*cp.Shape]string
	pending     []contact
}

func NewWorld(reader SnapshotReader, handler ContactHandler, c clock.Clock, opts ...WorldOpt) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	w := &World{
		reader:      reader,
		handler:     handler,
		clock:       c,
		step:        DefaultStep,
		space:       space,
		rocks:       make(map[string]*rock),
		shapeToRock: make(map[*cp.Shape]string),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.buildWalls()
	w.buildPlayer()
	w.setupHandlers()
	return w
}

func (w *World) buildWalls() {
	e := ArenaHalfExtent
	segments := []struct {
		a, b cp.Vector
	}{
		{a: cp.Vector{X: -e, Y: -e}, b: cp.Vector{X: e, Y: -e}},
		{a: cp.Vector{X: -e, Y: e}, b: cp.Vector{X: e, Y: e}},
		{a: cp.Vector{X: -e, Y: -e}, b: cp.Vector{X: -e, Y: e}},
		{a: cp.Vector{X: e, Y: -e}, b: cp.Vector{X: e, Y: e}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, 0.5)
		shape.SetElasticity(0.6)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeWall)
		w.space.AddShape(shape)
	}
}

func (w *World) buildPlayer() {
	body := cp.NewKinematicBody()
	body.SetPosition(farAway)
	w.space.AddBody(body)

	shape := cp.NewCircle(body, PlayerRadius, cp.Vector{})
	shape.SetCollisionType(collisionTypePlayer)
	w.space.AddShape(shape)

	w.player = body
}

// farAway parks the player body when there is no one to hit.
var farAway = cp.Vector{X: 1e6, Y: 1e6}

func (w *World) setupHandlers() {
	playerHandler := w.space.NewCollisionHandler(collisionTypeRock, collisionTypePlayer)
	playerHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shapeA, _ := arb.Shapes()
		w.record(shapeA)
		// rocks pass through; the simulation decides whether they are consumed
		return false
	}

	wallHandler := w.space.NewCollisionHandler(collisionTypeRock, collisionTypeWall)
	wallHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shapeA, _ := arb.Shapes()
		w.record(shapeA)
		return true
	}
}

func (w *World) record(shape *cp.Shape) {
	id, ok := w.shapeToRock[shape]
	if !ok {
		return
	}
	r := w.rocks[id]
	w.pending = append(w.pending, contact{projectileID: id, pos: w.position(r)})
}

// position maps a rock back into arena space.
func (w *World) position(r *rock) arena.Vec3 {
	p := r.body.Position()
	return arena.Vec3{X: p.X, Y: w.height(r), Z: p.Y}
}

func (w *World) height(r *rock) float64 {
	if r.grounded {
		return 0
	}
	t := r.proj.Age(w.clock.Now()).Seconds()
	return r.proj.Origin.Y + r.proj.Velocity.Y*t - 0.5*Gravity*t*t
}

// RockCount returns the number of projectiles currently mirrored.
func (w *World) RockCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rocks)
}

// Tick advances the world by one step and reports contacts. It is a driver ticker.
func (w *World) Tick(ctx context.Context) error {
	contacts := w.advance(w.step)

	for _, c := range contacts {
		err := w.handler.OnContact(ctx, c.projectileID, c.pos)
		if errors.Is(err, session.ErrSessionClosed) || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *World) advance(dt time.Duration) []contact {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sync(w.reader.Snapshot())
	w.space.Step(dt.Seconds())

	for id, r := range w.rocks {
		if r.grounded || w.height(r) > 0 {
			continue
		}
		r.grounded = true
		r.body.SetVelocity(0, 0)
		w.pending = append(w.pending, contact{projectileID: id, pos: w.position(r)})
	}

	contacts := w.pending
	w.pending = nil
	return contacts
}

// sync mirrors the snapshot's projectiles and local player into the space.
func (w *World) sync(snap arena.Snapshot) {
	live := make(map[string]struct{}, len(snap.Projectiles))
	for _, p := range snap.Projectiles {
		live[p.ID] = struct{}{}
		if _, ok := w.rocks[p.ID]; !ok {
			w.addRock(p)
		}
	}
	for id, r := range w.rocks {
		if _, ok := live[id]; !ok {
			w.removeRock(id, r)
		}
	}

	if lp := snap.LocalPlayer; lp != nil && lp.Alive {
		w.player.SetPosition(cp.Vector{X: lp.Position.X, Y: lp.Position.Z})
	} else {
		w.player.SetPosition(farAway)
	}
}

func (w *World) addRock(p arena.Projectile) {
	body := cp.NewBody(1, cp.MomentForCircle(1, 0, RockRadius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: p.Origin.X, Y: p.Origin.Z})
	body.SetVelocity(p.Velocity.X, p.Velocity.Z)
	w.space.AddBody(body)

	shape := cp.NewCircle(body, RockRadius, cp.Vector{})
	shape.SetElasticity(0.5)
	shape.SetFriction(0.9)
	shape.SetCollisionType(collisionTypeRock)
	w.space.AddShape(shape)

	w.rocks[p.ID] = &rock{proj: p, body: body, shape: shape}
	w.shapeToRock[shape] = p.ID
	slog.Debug("rock added to physics", "id", p.ID)
}

func (w *World) removeRock(id string, r *rock) {
	w.space.RemoveShape(r.shape)
	w.space.RemoveBody(r.body)
	delete(w.shapeToRock, r.shape)
	delete(w.rocks, id)
}
