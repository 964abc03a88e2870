package skyraid

import (
	"github.com/vovakirdan/skyraid/internal/core"
)

// Enemy is a ship that chases its target and absorbs hits until its
// health runs out.
type Enemy struct {
	Entity
	Health    int
	MaxHealth int
	Speed     float64 // px/s

	target Target
}

// NewEnemy creates an enemy with full health and no target.
func NewEnemy(pos core.Vec2, radius, health int, speed float64) (*Enemy, error) {
	e, err := newEntity(KindEnemy, pos, radius)
	if err != nil {
		return nil, err
	}
	if health <= 0 {
		return nil, invalidf("enemy health must be > 0, got %d", health)
	}
	if !(speed > 0) {
		return nil, invalidf("enemy speed must be > 0, got %v", speed)
	}
	return &Enemy{Entity: e, Health: health, MaxHealth: health, Speed: speed}, nil
}

// EstablishTarget sets what the enemy pursues. The enemy does not own it.
func (e *Enemy) EstablishTarget(t Target) {
	e.target = t
}

// Target returns the pursued target, or nil.
func (e *Enemy) Target() Target {
	return e.target
}

// Update steers the enemy toward its target without overshooting.
func (e *Enemy) Update(dt float64) {
	if !e.Active || e.target == nil {
		return
	}
	goal := e.target.Center()
	to := goal.Sub(e.Position)
	if step := e.Speed * dt; step < to.Magnitude() {
		e.Position = e.Position.Add(to.Normalize().Scale(step))
		return
	}
	e.Position = goal
}

// ReceiveDamage removes n hit points and reports whether the hit was
// lethal. A lethal hit deactivates the enemy. Damaging an inactive enemy,
// or passing n <= 0, does nothing.
func (e *Enemy) ReceiveDamage(n int) bool {
	if !e.Active || n <= 0 {
		return false
	}
	e.Health -= n
	if e.Health <= 0 {
		e.Health = 0
		e.Active = false
		return true
	}
	return false
}

// HealthRatio returns remaining health in [0, 1].
func (e *Enemy) HealthRatio() float64 {
	if e.MaxHealth <= 0 {
		return 0
	}
	return float64(e.Health) / float64(e.MaxHealth)
}
