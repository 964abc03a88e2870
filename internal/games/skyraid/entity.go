// Package skyraid implements the Sky Raid arcade shooter: a player ship
// fires missiles at pursuing enemy ships, picks up timed bonus coins and
// keeps a score that ends the run when it runs out.
//
// The simulation is pure: it knows nothing about terminals, windows or
// input devices. A Session is advanced with Update(dt) and read back
// through Snapshot.
package skyraid

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/skyraid/internal/core"
)

// ErrInvalidArgument is wrapped by every error caused by a caller passing
// a value the simulation cannot accept (non-positive dt, radius, speed...).
var ErrInvalidArgument = errors.New("skyraid: invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// Kind identifies the role of an entity. It is fixed at construction.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
	KindProjectile
	KindCoin
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindProjectile:
		return "projectile"
	case KindCoin:
		return "coin"
	default:
		return "unknown"
	}
}

// Entity is the state shared by every object on the field.
// Active=false marks the entity for removal at the end of the frame; an
// inactive entity never collides and is never drawn.
type Entity struct {
	Position core.Vec2
	Radius   int
	Active   bool
	kind     Kind
}

func newEntity(kind Kind, pos core.Vec2, radius int) (Entity, error) {
	if radius <= 0 {
		return Entity{}, invalidf("%s radius must be > 0, got %d", kind, radius)
	}
	return Entity{Position: pos, Radius: radius, Active: true, kind: kind}, nil
}

// Kind returns the entity's role.
func (e *Entity) Kind() Kind {
	return e.kind
}

// Center returns the current position. It lets an entity serve as an
// enemy Target.
func (e *Entity) Center() core.Vec2 {
	return e.Position
}

func (e *Entity) entity() *Entity {
	return e
}

// KeepInBounds clamps the entity so it stays fully inside the playfield.
func (e *Entity) KeepInBounds(b core.Bounds) {
	w, h := b.Size()
	r := float64(e.Radius)
	e.Position.X = clampAxis(e.Position.X, r, w-r)
	e.Position.Y = clampAxis(e.Position.Y, r, h-r)
}

// offField reports whether the centre has left the playfield by more than
// the entity's radius.
func (e *Entity) offField(b core.Bounds) bool {
	w, h := b.Size()
	r := float64(e.Radius)
	p := e.Position
	return p.X < -r || p.X > w+r || p.Y < -r || p.Y > h+r
}

// String implements fmt.Stringer.
func (e *Entity) String() string {
	state := "active"
	if !e.Active {
		state = "inactive"
	}
	return fmt.Sprintf("%s at %v r=%d (%s)", e.kind, e.Position, e.Radius, state)
}

// clampAxis clamps v into [lo, hi]; a field narrower than the entity
// centres it.
func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return core.ClampF(v, lo, hi)
}

// Body is anything that takes part in collision tests.
type Body interface {
	entity() *Entity
}

// Collides reports whether two bodies overlap. Inactive bodies never
// collide; touching circles do.
func Collides(a, b Body) bool {
	ea, eb := a.entity(), b.entity()
	if !ea.Active || !eb.Active {
		return false
	}
	return ea.Position.Distance(eb.Position) <= float64(ea.Radius+eb.Radius)
}

// Target is the non-owning reference an enemy pursues.
type Target interface {
	Center() core.Vec2
}
