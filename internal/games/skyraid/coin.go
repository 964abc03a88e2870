package skyraid

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
)

// RewardKind is the upgrade a coin grants.
type RewardKind int

const (
	RewardSpeed    RewardKind = iota // Faster missiles
	RewardDamage                     // Harder-hitting missiles
	RewardFireRate                   // Shorter fire cooldown
	RewardPoints                     // Straight to the score
)

// RewardKinds lists every valid kind.
var RewardKinds = []RewardKind{RewardSpeed, RewardDamage, RewardFireRate, RewardPoints}

// String returns the kind's config/wire name.
func (k RewardKind) String() string {
	switch k {
	case RewardSpeed:
		return "speed"
	case RewardDamage:
		return "damage"
	case RewardFireRate:
		return "fireRate"
	case RewardPoints:
		return "points"
	default:
		return fmt.Sprintf("RewardKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k RewardKind) Valid() bool {
	return k >= RewardSpeed && k <= RewardPoints
}

// ParseRewardKind converts a name produced by String back into a kind.
func ParseRewardKind(s string) (RewardKind, error) {
	for _, k := range RewardKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, invalidf("unknown reward kind %q", s)
}

// Reward is what a collected coin hands over.
type Reward struct {
	Kind   RewardKind
	Value  int
	Points int // Score bonus, non-zero only for RewardPoints
}

// Coin is a stationary pickup that expires after a fixed lifetime.
type Coin struct {
	Entity
	RewardKind    RewardKind
	RewardValue   int
	RemainingLife float64
	MaxLife       float64
	Spin          float64 // Radians, for renderers
	spinRate      float64
}

// NewCoin creates a coin with the given reward.
func NewCoin(pos core.Vec2, kind RewardKind, value int, cfg config.CoinConfig) (*Coin, error) {
	if !kind.Valid() {
		return nil, invalidf("unknown reward kind %d", int(kind))
	}
	if value <= 0 {
		return nil, invalidf("reward value must be > 0, got %d", value)
	}
	if !(cfg.Life > 0) {
		return nil, invalidf("coin life must be > 0, got %v", cfg.Life)
	}
	e, err := newEntity(KindCoin, pos, cfg.Radius)
	if err != nil {
		return nil, err
	}
	return &Coin{
		Entity:        e,
		RewardKind:    kind,
		RewardValue:   value,
		RemainingLife: cfg.Life,
		MaxLife:       cfg.Life,
		spinRate:      cfg.SpinRate,
	}, nil
}

// NewRandomCoin creates a coin whose kind is drawn uniformly from rng.
func NewRandomCoin(pos core.Vec2, value int, cfg config.CoinConfig, rng *rand.Rand) (*Coin, error) {
	return NewCoin(pos, RewardKinds[rng.Intn(len(RewardKinds))], value, cfg)
}

// Update spins the coin and counts down its lifetime.
func (c *Coin) Update(dt float64) {
	if !c.Active {
		return
	}
	c.Spin += c.spinRate * dt
	c.RemainingLife -= dt
	if c.RemainingLife <= 0 {
		c.Active = false
	}
}

// LifeRatio returns the remaining fraction of the coin's lifetime in [0, 1].
func (c *Coin) LifeRatio() float64 {
	if c.MaxLife <= 0 {
		return 0
	}
	return core.ClampF(c.RemainingLife/c.MaxLife, 0, 1)
}

// Collect retires the coin and returns its reward. Collecting a coin that
// is no longer active returns ok=false and has no effect.
func (c *Coin) Collect() (Reward, bool) {
	if !c.Active {
		return Reward{}, false
	}
	c.Active = false
	r := Reward{Kind: c.RewardKind, Value: c.RewardValue}
	if c.RewardKind == RewardPoints {
		r.Points = c.RewardValue
	}
	return r, true
}
