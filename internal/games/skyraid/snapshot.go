package skyraid

import (
	"math"

	"github.com/vovakirdan/skyraid/internal/core"
)

// EntityView is a read-only copy of one entity for renderers.
// Fields that do not apply to the entity's kind are zero.
type EntityView struct {
	Kind      Kind
	Position  core.Vec2
	Radius    int
	Direction core.Vec2 // Projectiles

	Reward      RewardKind // Coins
	RewardValue int
	LifeRatio   float64
	Spin        float64

	Health    int // Enemies
	MaxHealth int
}

// Snapshot is everything a renderer needs to draw one frame.
// It shares no memory with the session.
type Snapshot struct {
	Width, Height float64

	Player      EntityView
	Enemies     []EntityView
	Projectiles []EntityView
	Coins       []EntityView

	Score          int
	Level          int
	KillsThisLevel int
	KillsPerLevel  int
	Kills          int
	Background     int
	SpawnInterval  float64
	Elapsed        float64
	Running        bool
	GameOver       bool
	Message        string
	Modifiers      Modifiers
}

// Snapshot copies the visible state. Inactive entities are left out.
func (s *Session) Snapshot() Snapshot {
	w, h := s.bounds.Size()
	snap := Snapshot{
		Width:          w,
		Height:         h,
		Player:         EntityView{Kind: KindPlayer, Position: s.player.Position, Radius: s.player.Radius},
		Score:          s.score,
		Level:          s.level,
		KillsThisLevel: s.killsThisLevel,
		KillsPerLevel:  s.cfg.Session.KillsPerLevel,
		Kills:          s.kills,
		Background:     s.background,
		SpawnInterval:  s.spawnInterval,
		Elapsed:        s.elapsed,
		Running:        s.running,
		GameOver:       s.gameOver,
		Message:        s.message,
		Modifiers:      s.player.Mods,
	}

	for _, e := range s.enemies {
		if !e.Active {
			continue
		}
		snap.Enemies = append(snap.Enemies, EntityView{
			Kind:      KindEnemy,
			Position:  e.Position,
			Radius:    e.Radius,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
		})
	}
	for _, m := range s.player.Projectiles {
		if !m.Active {
			continue
		}
		snap.Projectiles = append(snap.Projectiles, EntityView{
			Kind:      KindProjectile,
			Position:  m.Position,
			Radius:    m.Radius,
			Direction: m.Direction,
		})
	}
	for _, c := range s.coins {
		if !c.Active {
			continue
		}
		snap.Coins = append(snap.Coins, EntityView{
			Kind:        KindCoin,
			Position:    c.Position,
			Radius:      c.Radius,
			Reward:      c.RewardKind,
			RewardValue: c.RewardValue,
			LifeRatio:   c.LifeRatio(),
			Spin:        c.Spin,
		})
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(17)
	mix := func(v uint64) { h = h*31 + v }
	mixF := func(f float64) { mix(math.Float64bits(f)) }
	mixView := func(v EntityView) {
		mix(uint64(v.Kind)) //#nosec G115 -- hash computation
		mixF(v.Position.X)
		mixF(v.Position.Y)
		mix(uint64(v.Radius)) //#nosec G115 -- hash computation
		mix(uint64(v.Reward)) //#nosec G115 -- hash computation
		mix(uint64(v.Health)) //#nosec G115 -- hash computation
	}

	mix(uint64(snap.Score))      //#nosec G115 -- hash computation
	mix(uint64(snap.Level))      //#nosec G115 -- hash computation
	mix(uint64(snap.Kills))      //#nosec G115 -- hash computation
	mix(uint64(snap.Background)) //#nosec G115 -- hash computation
	mixF(snap.SpawnInterval)
	mixView(snap.Player)
	for _, v := range snap.Enemies {
		mixView(v)
	}
	for _, v := range snap.Projectiles {
		mixView(v)
	}
	for _, v := range snap.Coins {
		mixView(v)
	}
	return h
}
