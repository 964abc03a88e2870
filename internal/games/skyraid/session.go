package skyraid

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
)

// messageDuration is how long the last upgrade message stays on the HUD.
const messageDuration = 2.0

// Session is one match: it owns the player, the enemies and the coins and
// advances them frame by frame. A Session is not safe for concurrent use;
// the platform drives it from a single goroutine.
type Session struct {
	cfg        config.SkyraidConfig
	bounds     core.Bounds
	rng        *rand.Rand
	difficulty *config.DifficultyManager

	player  *Player
	enemies []*Enemy
	coins   []*Coin

	score          int
	level          int
	killsThisLevel int
	kills          int
	spawnTimer     float64
	spawnInterval  float64
	damageTimer    float64 // Seconds since the last contact penalty
	running        bool
	gameOver       bool
	background     int
	elapsed        float64

	message    string
	messageTTL float64

	events []Event
}

// NewSession creates a session ready to play. bounds is queried every
// frame; rng drives every random choice so a seed reproduces a run.
func NewSession(cfg config.SkyraidConfig, bounds core.Bounds, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if bounds == nil {
		return nil, invalidf("bounds are required")
	}
	if rng == nil {
		return nil, invalidf("rng is required")
	}
	s := &Session{
		cfg:        cfg,
		bounds:     bounds,
		rng:        rng,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset starts a fresh match: score, level, timers and modifiers go back
// to their starting values and the field holds one player and one enemy.
func (s *Session) Reset() error {
	c := s.cfg.Session
	s.score = c.StartScore
	s.level = 1
	s.killsThisLevel = 0
	s.kills = 0
	s.spawnTimer = 0
	s.spawnInterval = c.SpawnInterval
	s.damageTimer = 0
	s.background = 0
	s.elapsed = 0
	s.message = ""
	s.messageTTL = 0
	s.enemies = nil
	s.coins = nil
	s.events = nil

	w, h := s.bounds.Size()
	player, err := NewPlayer(core.V(w/4, h/2), s.cfg)
	if err != nil {
		return err
	}
	s.player = player

	enemy, err := s.newEnemy(core.V(w/2, h/4), c.EnemyRadii[len(c.EnemyRadii)/2])
	if err != nil {
		return err
	}
	s.enemies = append(s.enemies, enemy)

	s.running = true
	s.gameOver = false
	return nil
}

// Update advances the match by dt seconds. dt must be finite and positive.
// A session that is not running ignores the call.
func (s *Session) Update(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return invalidf("dt must be finite and > 0, got %v", dt)
	}
	if !s.running {
		return nil
	}
	s.elapsed += dt
	if s.messageTTL > 0 {
		s.messageTTL -= dt
		if s.messageTTL <= 0 {
			s.message = ""
		}
	}

	s.damageTimer += dt
	s.spawnTimer += dt

	// Timed spawn keeps a baseline presence without flooding the field.
	if s.spawnTimer >= s.spawnInterval && s.ActiveEnemies() < s.cfg.Session.TimedSpawnBelow {
		if err := s.spawnEnemy(); err != nil {
			return err
		}
		s.spawnTimer = 0
	}

	s.player.Update(dt, s.bounds)
	for _, e := range s.enemies {
		if e.Active {
			e.Update(dt)
		}
	}
	for _, m := range s.player.Projectiles {
		m.Update(dt, s.bounds)
	}
	for _, c := range s.coins {
		c.Update(dt)
	}

	if err := s.resolveProjectileHits(); err != nil {
		return err
	}
	s.resolvePlayerContacts()
	if err := s.resolveCoinPickups(); err != nil {
		return err
	}

	// Replacement uses this frame's pre-sweep counts, one enemy per frame.
	if active := s.ActiveEnemies(); active < len(s.enemies) && active < s.cfg.Session.MaxEnemies {
		if err := s.spawnEnemy(); err != nil {
			return err
		}
	}

	if s.score <= 0 && !s.gameOver {
		s.gameOver = true
		s.running = false
		s.score = 0
		s.emit(GameOver{Level: s.level, Kills: s.kills})
	}

	s.sweep()
	return nil
}

// resolveProjectileHits lets each live missile hit at most one enemy.
func (s *Session) resolveProjectileHits() error {
	missiles := append([]*Projectile(nil), s.player.Projectiles...)
	for _, m := range missiles {
		if !m.Active {
			continue
		}
		for _, e := range s.enemies {
			if !Collides(m, e) {
				continue
			}
			lethal := e.ReceiveDamage(m.Damage)
			m.Active = false
			if lethal {
				if err := s.onKill(e); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

func (s *Session) onKill(e *Enemy) error {
	s.score += s.cfg.Session.KillPoints
	s.killsThisLevel++
	s.kills++
	s.emit(EnemyKilled{Position: e.Position, Score: s.score})

	value := min(s.cfg.Session.MaxCoinValue, s.level/2+1)
	coin, err := NewRandomCoin(e.Position, value, s.cfg.Coin, s.rng)
	if err != nil {
		return err
	}
	s.coins = append(s.coins, coin)

	if s.killsThisLevel >= s.cfg.Session.KillsPerLevel {
		s.levelUp()
	}
	return nil
}

func (s *Session) levelUp() {
	c := s.cfg.Session
	s.level++
	s.killsThisLevel = 0
	s.background = min(s.background+1, c.Backgrounds-1)
	s.spawnInterval = math.Max(c.MinSpawnInterval, s.spawnInterval-c.SpawnIntervalStep)
	s.emit(LevelUp{Level: s.level, SpawnInterval: s.spawnInterval})
}

// resolvePlayerContacts charges the contact penalty at most once per
// cooldown window.
func (s *Session) resolvePlayerContacts() {
	for _, e := range s.enemies {
		if !Collides(s.player, e) || s.damageTimer < s.cfg.Session.DamageCooldown {
			continue
		}
		s.score -= s.cfg.Session.DamagePenalty
		s.damageTimer = 0
		s.emit(PlayerHit{Penalty: s.cfg.Session.DamagePenalty, Score: s.score})
	}
}

func (s *Session) resolveCoinPickups() error {
	for _, c := range s.coins {
		if !Collides(s.player, c) {
			continue
		}
		reward, ok := c.Collect()
		if !ok {
			continue
		}
		msg, err := s.player.ApplyUpgrade(reward.Kind, reward.Value)
		if err != nil {
			return err
		}
		s.score += reward.Points
		s.message = msg
		s.messageTTL = messageDuration
		s.emit(CoinCollected{Reward: reward, Message: msg})
	}
	return nil
}

func (s *Session) sweep() {
	enemies := s.enemies[:0]
	for _, e := range s.enemies {
		if e.Active {
			enemies = append(enemies, e)
		}
	}
	clear(s.enemies[len(enemies):])
	s.enemies = enemies

	coins := s.coins[:0]
	for _, c := range s.coins {
		if c.Active {
			coins = append(coins, c)
		}
	}
	clear(s.coins[len(coins):])
	s.coins = coins

	s.player.sweepProjectiles()
}

// spawnEnemy places a new enemy at a random spot inside the spawn margin,
// chasing the player.
func (s *Session) spawnEnemy() error {
	c := s.cfg.Session
	w, h := s.bounds.Size()
	pos := core.V(
		s.randBetween(c.SpawnMargin, w-c.SpawnMargin),
		s.randBetween(c.SpawnMargin, h-c.SpawnMargin),
	)
	e, err := s.newEnemy(pos, c.EnemyRadii[s.rng.Intn(len(c.EnemyRadii))])
	if err != nil {
		return err
	}
	s.enemies = append(s.enemies, e)
	return nil
}

func (s *Session) newEnemy(pos core.Vec2, radius int) (*Enemy, error) {
	ec := s.cfg.Enemy
	speed := s.difficulty.Speed(s.randBetween(ec.MinSpeed, ec.MaxSpeed), s.level)
	health := ec.BaseHealth
	if ec.HealthEveryLevels > 0 {
		health += (s.level - 1) / ec.HealthEveryLevels
	}
	e, err := NewEnemy(pos, radius, health, speed)
	if err != nil {
		return nil, err
	}
	e.EstablishTarget(s.player)
	return e, nil
}

// randBetween returns a value in [lo, hi]; an empty range yields its midpoint.
func (s *Session) randBetween(lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}

// DrainEvents returns the events recorded since the last call.
func (s *Session) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// OnFire fires a missile toward target. It is ignored once the match is
// over or stopped and reports whether a missile was launched.
func (s *Session) OnFire(target core.Vec2) (bool, error) {
	if s.gameOver || !s.running {
		return false, nil
	}
	return s.player.Fire(target)
}

// OnRestart resets a finished match. Outside GameOver it does nothing and
// returns false.
func (s *Session) OnRestart() (bool, error) {
	if !s.gameOver {
		return false, nil
	}
	if err := s.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

// OnQuit stops the simulation; further updates are no-ops.
func (s *Session) OnQuit() {
	s.running = false
}

// SteerPlayer makes the player fly toward point (mouse steering).
func (s *Session) SteerPlayer(point core.Vec2) {
	s.player.SteerTo(point)
}

// MovePlayer moves the player along dir for one frame (keyboard steering).
func (s *Session) MovePlayer(dir core.Vec2) {
	s.player.Move(dir)
}

// NearestEnemy returns the position of the closest active enemy.
func (s *Session) NearestEnemy() (core.Vec2, bool) {
	var (
		best  core.Vec2
		bestD = math.Inf(1)
		found bool
	)
	for _, e := range s.enemies {
		if !e.Active {
			continue
		}
		if d := e.Position.Distance(s.player.Position); d < bestD {
			best, bestD, found = e.Position, d, true
		}
	}
	return best, found
}

// ActiveEnemies counts enemies that are still alive.
func (s *Session) ActiveEnemies() int {
	n := 0
	for _, e := range s.enemies {
		if e.Active {
			n++
		}
	}
	return n
}

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Level returns the current level, starting at 1.
func (s *Session) Level() int { return s.level }

// KillsThisLevel returns kills counted toward the next level-up.
func (s *Session) KillsThisLevel() int { return s.killsThisLevel }

// KillsPerLevel returns the level-up quota.
func (s *Session) KillsPerLevel() int { return s.cfg.Session.KillsPerLevel }

// Kills returns every kill since the last reset.
func (s *Session) Kills() int { return s.kills }

// SpawnInterval returns the seconds between timed spawns.
func (s *Session) SpawnInterval() float64 { return s.spawnInterval }

// Background returns the current background index.
func (s *Session) Background() int { return s.background }

// Running reports whether Update still simulates.
func (s *Session) Running() bool { return s.running }

// IsGameOver reports whether the score ran out.
func (s *Session) IsGameOver() bool { return s.gameOver }

// Elapsed returns simulated seconds since the last reset.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Player returns the player ship.
func (s *Session) Player() *Player { return s.player }

// Enemies returns a copy of the enemy list.
func (s *Session) Enemies() []*Enemy {
	return append([]*Enemy(nil), s.enemies...)
}

// Coins returns a copy of the coin list.
func (s *Session) Coins() []*Coin {
	return append([]*Coin(nil), s.coins...)
}

// String implements fmt.Stringer.
func (s *Session) String() string {
	state := "Active"
	if s.gameOver {
		state = "Game Over"
	}
	return fmt.Sprintf("Sky Raid: %d pts - %s", s.score, state)
}
