package skyraid

import (
	"fmt"
	"math"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
)

// Modifiers are the upgrades a player has collected.
type Modifiers struct {
	MissileSpeedMult   float64 // >= 1
	MissileDamageBonus int     // >= 0
	FireRateMult       float64 // >= 1, divides the fire cooldown
	BonusPoints        int     // >= 0, points gathered from coins
}

// IdentityModifiers returns the modifiers of a fresh ship.
func IdentityModifiers() Modifiers {
	return Modifiers{MissileSpeedMult: 1, FireRateMult: 1}
}

// Player is the ship under the user's control. It owns the missiles it
// has fired.
type Player struct {
	Entity
	Projectiles []*Projectile
	Mods        Modifiers

	fireCooldown     float64 // Seconds until the next shot is allowed
	fireCooldownBase float64 // Current cooldown after fire-rate upgrades
	baseCooldown     float64 // Cooldown without upgrades
	speed            float64

	steerTo  core.Vec2
	steering bool
	move     core.Vec2

	projectile config.ProjectileConfig
	upgrades   config.UpgradeConfig
}

// NewPlayer creates a ship at pos with identity modifiers.
func NewPlayer(pos core.Vec2, cfg config.SkyraidConfig) (*Player, error) {
	e, err := newEntity(KindPlayer, pos, cfg.Player.Radius)
	if err != nil {
		return nil, err
	}
	if !(cfg.Player.Speed > 0) {
		return nil, invalidf("player speed must be > 0, got %v", cfg.Player.Speed)
	}
	if cfg.Player.FireCooldown < 0 {
		return nil, invalidf("fire cooldown must be >= 0, got %v", cfg.Player.FireCooldown)
	}
	return &Player{
		Entity:           e,
		Mods:             IdentityModifiers(),
		fireCooldownBase: cfg.Player.FireCooldown,
		baseCooldown:     cfg.Player.FireCooldown,
		speed:            cfg.Player.Speed,
		projectile:       cfg.Projectile,
		upgrades:         cfg.Upgrades,
	}, nil
}

// FireCooldown returns the seconds left before the next shot.
func (p *Player) FireCooldown() float64 {
	return p.fireCooldown
}

// FireCooldownBase returns the cooldown applied after each shot.
func (p *Player) FireCooldownBase() float64 {
	return p.fireCooldownBase
}

// SteerTo makes the ship fly toward point on subsequent updates.
func (p *Player) SteerTo(point core.Vec2) {
	p.steerTo = point
	p.steering = true
}

// Move flies the ship along dir during the next update only. Keyboard
// movement overrides steering for that frame.
func (p *Player) Move(dir core.Vec2) {
	p.move = dir
}

// Update ticks the fire cooldown and moves the ship, keeping it on screen.
func (p *Player) Update(dt float64, b core.Bounds) {
	p.fireCooldown = math.Max(0, p.fireCooldown-dt)

	step := p.speed * dt
	switch {
	case !p.move.IsZero():
		p.Position = p.Position.Add(p.move.Normalize().Scale(step))
		p.steering = false
	case p.steering:
		to := p.steerTo.Sub(p.Position)
		if d := to.Magnitude(); d <= step {
			p.Position = p.steerTo
		} else {
			p.Position = p.Position.Add(to.Normalize().Scale(step))
		}
	}
	p.move = core.Vec2{}
	p.KeepInBounds(b)
}

// Fire launches a missile toward target. It reports false without error
// when the cooldown has not elapsed or target is the ship's own position.
func (p *Player) Fire(target core.Vec2) (bool, error) {
	if !p.Active || p.fireCooldown > 0 {
		return false, nil
	}
	dir := target.Sub(p.Position)
	if dir.IsZero() {
		return false, nil
	}
	m, err := NewProjectile(
		p.Position,
		dir,
		p.projectile.Speed*p.Mods.MissileSpeedMult,
		p.projectile.Radius,
		1+p.Mods.MissileDamageBonus,
		p.projectile.Life,
	)
	if err != nil {
		return false, err
	}
	p.Projectiles = append(p.Projectiles, m)
	p.fireCooldown = p.fireCooldownBase
	return true, nil
}

// ApplyUpgrade applies a coin reward to the modifiers and returns a short
// description for the HUD. Points rewards only bump BonusPoints; adding
// them to the score is the session's job.
func (p *Player) ApplyUpgrade(kind RewardKind, value int) (string, error) {
	if !kind.Valid() {
		return "", invalidf("unknown reward kind %d", int(kind))
	}
	if value <= 0 {
		return "", invalidf("reward value must be > 0, got %d", value)
	}

	gain := 1 + p.upgrades.MultiplierStep*float64(value)
	switch kind {
	case RewardSpeed:
		p.Mods.MissileSpeedMult = capMult(p.Mods.MissileSpeedMult*gain, p.upgrades.MaxMissileSpeedMult)
		return fmt.Sprintf("Missile speed x%.2f", p.Mods.MissileSpeedMult), nil
	case RewardDamage:
		p.Mods.MissileDamageBonus += value
		return fmt.Sprintf("Missile damage +%d", value), nil
	case RewardFireRate:
		p.Mods.FireRateMult = capMult(p.Mods.FireRateMult*gain, p.upgrades.MaxFireRateMult)
		p.fireCooldownBase = p.baseCooldown / p.Mods.FireRateMult
		return fmt.Sprintf("Fire rate x%.2f", p.Mods.FireRateMult), nil
	default:
		p.Mods.BonusPoints += value
		return fmt.Sprintf("+%d bonus points", value), nil
	}
}

// capMult applies an upper bound; a bound below 1 means uncapped.
func capMult(v, limit float64) float64 {
	if limit >= 1 && v > limit {
		return limit
	}
	return v
}

// sweepProjectiles drops retired missiles, reusing the backing array.
func (p *Player) sweepProjectiles() {
	kept := p.Projectiles[:0]
	for _, m := range p.Projectiles {
		if m.Active {
			kept = append(kept, m)
		}
	}
	clear(p.Projectiles[len(kept):])
	p.Projectiles = kept
}
