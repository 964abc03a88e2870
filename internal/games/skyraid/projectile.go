package skyraid

import (
	"github.com/vovakirdan/skyraid/internal/core"
)

// Projectile is a missile flying in a straight line until it hits an
// enemy, expires or leaves the field.
type Projectile struct {
	Entity
	Direction     core.Vec2 // Unit vector
	Speed         float64   // px/s
	Damage        int
	RemainingLife float64 // Seconds
}

// NewProjectile creates a missile at pos heading along dir. dir need not
// be normalized but must not be zero.
func NewProjectile(pos, dir core.Vec2, speed float64, radius, damage int, life float64) (*Projectile, error) {
	e, err := newEntity(KindProjectile, pos, radius)
	if err != nil {
		return nil, err
	}
	switch {
	case dir.IsZero():
		return nil, invalidf("projectile direction must be non-zero")
	case !(speed > 0):
		return nil, invalidf("projectile speed must be > 0, got %v", speed)
	case damage < 1:
		return nil, invalidf("projectile damage must be >= 1, got %d", damage)
	case !(life > 0):
		return nil, invalidf("projectile life must be > 0, got %v", life)
	}
	return &Projectile{
		Entity:        e,
		Direction:     dir.Normalize(),
		Speed:         speed,
		Damage:        damage,
		RemainingLife: life,
	}, nil
}

// Update moves the projectile and retires it once its life runs out or it
// leaves the field.
func (p *Projectile) Update(dt float64, b core.Bounds) {
	if !p.Active {
		return
	}
	p.Position = p.Position.Add(p.Direction.Scale(p.Speed * dt))
	p.RemainingLife -= dt
	if p.RemainingLife <= 0 || p.offField(b) {
		p.Active = false
	}
}
