package skyraid

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
)

const frame = 1.0 / 60

func testConfig() config.SkyraidConfig {
	cfg := config.DefaultSkyraidConfig()
	cfg.Difficulty.Enabled = false
	return cfg
}

func newTestSession(t *testing.T, cfg config.SkyraidConfig) *Session {
	t.Helper()
	s, err := NewSession(cfg, field, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func mustUpdate(t *testing.T, s *Session, dt float64) {
	t.Helper()
	if err := s.Update(dt); err != nil {
		t.Fatalf("Update(%v) error = %v", dt, err)
	}
}

// firstActiveEnemy returns an enemy still alive.
func firstActiveEnemy(t *testing.T, s *Session) *Enemy {
	t.Helper()
	for _, e := range s.enemies {
		if e.Active {
			return e
		}
	}
	t.Fatal("no active enemy")
	return nil
}

// shoot puts a missile right on top of e so the next Update hits it.
func shoot(t *testing.T, s *Session, e *Enemy) {
	t.Helper()
	m, err := NewProjectile(e.Position, core.V(1, 0), 1, 8, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	s.player.Projectiles = append(s.player.Projectiles, m)
}

func TestNewSessionInitialState(t *testing.T) {
	s := newTestSession(t, testConfig())

	if s.Score() != 10 || s.Level() != 1 || s.KillsThisLevel() != 0 {
		t.Errorf("initial score/level/kills = %d/%d/%d", s.Score(), s.Level(), s.KillsThisLevel())
	}
	if !s.Running() || s.IsGameOver() {
		t.Error("new session should be running")
	}
	if s.Player().Position != core.V(200, 300) {
		t.Errorf("player at %v, expected (w/4, h/2)", s.Player().Position)
	}
	enemies := s.Enemies()
	if len(enemies) != 1 {
		t.Fatalf("expected 1 starting enemy, got %d", len(enemies))
	}
	if enemies[0].Position != core.V(400, 150) {
		t.Errorf("enemy at %v, expected (w/2, h/4)", enemies[0].Position)
	}
	if enemies[0].Health != 1 {
		t.Errorf("enemy health = %d, expected 1", enemies[0].Health)
	}
	if enemies[0].Target() != Target(s.Player()) {
		t.Error("starting enemy should target the player")
	}
	if s.String() != "Sky Raid: 10 pts - Active" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	bad := testConfig()
	bad.Session.KillsPerLevel = 0
	noRadii := testConfig()
	noRadii.Session.EnemyRadii = nil
	nanCooldown := testConfig()
	nanCooldown.Session.DamageCooldown = math.NaN()

	tests := []struct {
		name   string
		cfg    config.SkyraidConfig
		bounds core.Bounds
		rng    *rand.Rand
	}{
		{"invalid config", bad, field, rand.New(rand.NewSource(1))},
		{"no enemy radii", noRadii, field, rand.New(rand.NewSource(1))},
		{"nan damage cooldown", nanCooldown, field, rand.New(rand.NewSource(1))},
		{"nil bounds", testConfig(), nil, rand.New(rand.NewSource(1))},
		{"nil rng", testConfig(), field, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSession(tc.cfg, tc.bounds, tc.rng); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, expected ErrInvalidArgument", err)
			}
		})
	}
}

func TestUpdateRejectsBadDt(t *testing.T) {
	s := newTestSession(t, testConfig())

	for _, dt := range []float64{0, -frame, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := s.Update(dt); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Update(%v) error = %v, expected ErrInvalidArgument", dt, err)
		}
	}
	if s.Elapsed() != 0 {
		t.Error("rejected updates must not advance the session")
	}
}

func TestFirstKill(t *testing.T) {
	s := newTestSession(t, testConfig())
	enemy := firstActiveEnemy(t, s)
	shoot(t, s, enemy)

	mustUpdate(t, s, frame)

	if enemy.Active {
		t.Error("enemy should be destroyed")
	}
	if s.Score() != 11 {
		t.Errorf("score = %d, expected 11", s.Score())
	}
	if s.KillsThisLevel() != 1 {
		t.Errorf("KillsThisLevel = %d, expected 1", s.KillsThisLevel())
	}
	coins := s.Coins()
	if len(coins) != 1 {
		t.Fatalf("expected 1 coin, got %d", len(coins))
	}
	if coins[0].Position != enemy.Position {
		t.Errorf("coin at %v, expected enemy's last position %v", coins[0].Position, enemy.Position)
	}
	if coins[0].RewardValue != 1 {
		t.Errorf("coin value = %d, expected min(3, 1/2+1) = 1", coins[0].RewardValue)
	}
	if len(s.Player().Projectiles) != 0 {
		t.Error("spent projectile should be swept")
	}
	// The dead enemy was swept and exactly one replacement spawned.
	if got := s.Enemies(); len(got) != 1 || got[0] == enemy {
		t.Errorf("expected one fresh replacement enemy, got %v", got)
	}

	var killed bool
	for _, ev := range s.DrainEvents() {
		if _, ok := ev.(EnemyKilled); ok {
			killed = true
		}
	}
	if !killed {
		t.Error("expected an EnemyKilled event")
	}
}

func TestNonLethalHit(t *testing.T) {
	cfg := testConfig()
	cfg.Enemy.BaseHealth = 2
	s := newTestSession(t, cfg)
	enemy := firstActiveEnemy(t, s)
	shoot(t, s, enemy)

	mustUpdate(t, s, frame)

	if !enemy.Active || enemy.Health != 1 {
		t.Errorf("enemy active=%v health=%d, expected alive with 1", enemy.Active, enemy.Health)
	}
	if s.Score() != 10 {
		t.Errorf("non-lethal hit changed score to %d", s.Score())
	}
	if len(s.Player().Projectiles) != 0 {
		t.Error("projectile should be spent on a non-lethal hit")
	}
	if len(s.Coins()) != 0 {
		t.Error("non-lethal hit should not drop a coin")
	}
}

func TestProjectileHitsOnlyFirstEnemy(t *testing.T) {
	s := newTestSession(t, testConfig())
	first := firstActiveEnemy(t, s)
	second, err := s.newEnemy(first.Position, 20)
	if err != nil {
		t.Fatal(err)
	}
	s.enemies = append(s.enemies, second)
	shoot(t, s, first)

	mustUpdate(t, s, frame)

	if first.Active {
		t.Error("first enemy in order should take the hit")
	}
	if !second.Active {
		t.Error("a projectile must hit at most one enemy")
	}
	if s.Score() != 11 {
		t.Errorf("score = %d, expected 11", s.Score())
	}
}

func TestDamageCooldown(t *testing.T) {
	s := newTestSession(t, testConfig())
	enemy := firstActiveEnemy(t, s)
	enemy.Position = s.Player().Position
	s.damageTimer = s.cfg.Session.DamageCooldown

	mustUpdate(t, s, frame)
	if s.Score() != 8 {
		t.Fatalf("score = %d, expected 8 after one contact", s.Score())
	}
	if s.damageTimer != 0 {
		t.Errorf("damage timer = %f, expected reset to 0", s.damageTimer)
	}

	mustUpdate(t, s, frame)
	if s.Score() != 8 {
		t.Errorf("score = %d, second contact inside the cooldown must not cost points", s.Score())
	}
}

func TestContactPenaltyOncePerFrame(t *testing.T) {
	s := newTestSession(t, testConfig())
	for i := 0; i < 3; i++ {
		e, err := s.newEnemy(s.Player().Position, 20)
		if err != nil {
			t.Fatal(err)
		}
		s.enemies = append(s.enemies, e)
	}
	s.damageTimer = 5

	mustUpdate(t, s, frame)
	if s.Score() != 8 {
		t.Errorf("score = %d, expected exactly one penalty of 2", s.Score())
	}
}

func rammed(t *testing.T, s *Session) {
	t.Helper()
	e := firstActiveEnemy(t, s)
	e.Position = s.Player().Position
	s.damageTimer = s.cfg.Session.DamageCooldown
	mustUpdate(t, s, frame)
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name       string
		startScore int
		hits       int
	}{
		{"even score", 10, 5},
		{"odd score clamps to zero", 9, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Session.StartScore = tc.startScore
			s := newTestSession(t, cfg)

			for i := 0; i < tc.hits; i++ {
				if s.IsGameOver() {
					t.Fatalf("game over after %d hits, expected %d", i, tc.hits)
				}
				rammed(t, s)
			}

			if !s.IsGameOver() || s.Running() {
				t.Fatalf("gameOver=%v running=%v, expected game over", s.IsGameOver(), s.Running())
			}
			if s.Score() != 0 {
				t.Errorf("score = %d, expected 0", s.Score())
			}
			if s.String() != "Sky Raid: 0 pts - Game Over" {
				t.Errorf("String() = %q", s.String())
			}

			// Further updates are no-ops and the score never goes negative.
			for i := 0; i < 120; i++ {
				mustUpdate(t, s, frame)
			}
			if s.Score() != 0 {
				t.Errorf("score changed after game over: %d", s.Score())
			}

			if fired, _ := s.OnFire(core.V(0, 0)); fired {
				t.Error("OnFire must be ignored after game over")
			}
		})
	}
}

func TestReset(t *testing.T) {
	s := newTestSession(t, testConfig())

	// Dirty the session: a level-up, upgrades, projectiles and a coin.
	for i := 0; i < 3; i++ {
		e := firstActiveEnemy(t, s)
		e.Position = core.V(600, 100)
		shoot(t, s, e)
		mustUpdate(t, s, frame)
	}
	if _, err := s.Player().ApplyUpgrade(RewardFireRate, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := s.OnFire(core.V(700, 300)); err != nil {
		t.Fatal(err)
	}

	if restarted, _ := s.OnRestart(); restarted {
		t.Fatal("OnRestart must be rejected while the match is active")
	}

	for !s.IsGameOver() {
		rammed(t, s)
	}

	restarted, err := s.OnRestart()
	if err != nil || !restarted {
		t.Fatalf("OnRestart() = %v, %v", restarted, err)
	}

	if !s.Running() || s.IsGameOver() {
		t.Error("session should be active after reset")
	}
	if s.Score() != 10 || s.Level() != 1 || s.KillsThisLevel() != 0 || s.Kills() != 0 {
		t.Errorf("score/level/kills = %d/%d/%d/%d", s.Score(), s.Level(), s.KillsThisLevel(), s.Kills())
	}
	if s.SpawnInterval() != 5 || s.Background() != 0 {
		t.Errorf("spawn interval %f background %d not restored", s.SpawnInterval(), s.Background())
	}
	if len(s.Enemies()) != 1 || len(s.Coins()) != 0 || len(s.Player().Projectiles) != 0 {
		t.Errorf("collections: enemies=%d coins=%d projectiles=%d",
			len(s.Enemies()), len(s.Coins()), len(s.Player().Projectiles))
	}
	if s.Player().Mods != IdentityModifiers() {
		t.Errorf("modifiers = %+v, expected identity", s.Player().Mods)
	}
	if s.Player().FireCooldownBase() != s.cfg.Player.FireCooldown {
		t.Errorf("fire cooldown base = %f, expected %f", s.Player().FireCooldownBase(), s.cfg.Player.FireCooldown)
	}
	if s.damageTimer != 0 || s.spawnTimer != 0 {
		t.Error("timers should be reset")
	}
}

func TestThreeKillsLevelUp(t *testing.T) {
	s := newTestSession(t, testConfig())

	for i := 0; i < 3; i++ {
		e := firstActiveEnemy(t, s)
		e.Position = core.V(600, 100)
		shoot(t, s, e)
		mustUpdate(t, s, frame)
	}

	if s.Level() != 2 {
		t.Errorf("level = %d, expected 2", s.Level())
	}
	if s.KillsThisLevel() != 0 {
		t.Errorf("KillsThisLevel = %d, expected 0", s.KillsThisLevel())
	}
	if s.SpawnInterval() != 4.5 {
		t.Errorf("spawn interval = %f, expected 4.5", s.SpawnInterval())
	}
	if s.Background() != 1 {
		t.Errorf("background = %d, expected 1", s.Background())
	}

	levelUps := 0
	for _, ev := range s.DrainEvents() {
		if _, ok := ev.(LevelUp); ok {
			levelUps++
		}
	}
	if levelUps != 1 {
		t.Errorf("got %d LevelUp events, expected 1", levelUps)
	}
}

func TestMonotonicDifficulty(t *testing.T) {
	s := newTestSession(t, testConfig())

	for n := 0; n <= 12; n++ {
		want := math.Max(2.0, 5.0-0.5*float64(n))
		if s.SpawnInterval() != want {
			t.Errorf("after %d level-ups spawn interval = %f, expected %f", n, s.SpawnInterval(), want)
		}
		s.levelUp()
	}
	if s.Background() != 4 {
		t.Errorf("background = %d, expected clamp at last index 4", s.Background())
	}
}

func TestCoinValueGrowsWithLevel(t *testing.T) {
	tests := []struct {
		level, value int
	}{
		{1, 1}, {2, 2}, {3, 2}, {4, 3}, {9, 3},
	}
	for _, tc := range tests {
		s := newTestSession(t, testConfig())
		s.level = tc.level
		e := firstActiveEnemy(t, s)
		e.Health, e.MaxHealth = 1, 1
		e.Position = core.V(600, 100)
		shoot(t, s, e)
		mustUpdate(t, s, frame)

		coins := s.Coins()
		if len(coins) != 1 || coins[0].RewardValue != tc.value {
			t.Errorf("level %d: coins=%d, expected one of value %d", tc.level, len(coins), tc.value)
		}
	}
}

func TestCoinPickup(t *testing.T) {
	s := newTestSession(t, testConfig())
	coin, err := NewCoin(s.Player().Position, RewardPoints, 3, s.cfg.Coin)
	if err != nil {
		t.Fatal(err)
	}
	s.coins = append(s.coins, coin)

	mustUpdate(t, s, frame)

	if s.Score() != 13 {
		t.Errorf("score = %d, expected 13", s.Score())
	}
	if s.Player().Mods.BonusPoints != 3 {
		t.Errorf("BonusPoints = %d, expected 3", s.Player().Mods.BonusPoints)
	}
	if len(s.Coins()) != 0 {
		t.Error("collected coin should leave the field")
	}
	if snap := s.Snapshot(); snap.Message == "" {
		t.Error("pickup should set the HUD message")
	}

	// Collecting again is a no-op for the session.
	if _, ok := coin.Collect(); ok {
		t.Error("coin collected twice")
	}
	mustUpdate(t, s, frame)
	if s.Score() != 13 || s.Player().Mods.BonusPoints != 3 {
		t.Errorf("second collect changed state: score=%d bonus=%d", s.Score(), s.Player().Mods.BonusPoints)
	}
}

func TestUpgradeCoinAppliesModifier(t *testing.T) {
	s := newTestSession(t, testConfig())
	coin, err := NewCoin(s.Player().Position, RewardDamage, 2, s.cfg.Coin)
	if err != nil {
		t.Fatal(err)
	}
	s.coins = append(s.coins, coin)

	mustUpdate(t, s, frame)

	if s.Player().Mods.MissileDamageBonus != 2 {
		t.Errorf("MissileDamageBonus = %d, expected 2", s.Player().Mods.MissileDamageBonus)
	}
	if s.Score() != 10 {
		t.Errorf("upgrade coin changed score to %d", s.Score())
	}
}

func TestTimedSpawn(t *testing.T) {
	s := newTestSession(t, testConfig())
	// Park the starting enemy far away and stop it from moving.
	e := firstActiveEnemy(t, s)
	e.EstablishTarget(nil)
	e.Position = core.V(700, 500)

	steps := int(s.SpawnInterval()/frame) + 5
	for i := 0; i < steps; i++ {
		mustUpdate(t, s, frame)
	}
	if got := s.ActiveEnemies(); got != 2 {
		t.Errorf("active enemies = %d, expected 2 after one spawn interval", got)
	}
	if s.spawnTimer >= s.SpawnInterval() {
		t.Error("spawn timer should reset after a timed spawn")
	}
}

func TestTimedSpawnCap(t *testing.T) {
	s := newTestSession(t, testConfig())
	for i := 0; i < 2; i++ {
		if err := s.spawnEnemy(); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range s.enemies {
		e.EstablishTarget(nil)
	}
	s.spawnTimer = 100
	s.damageTimer = -1000 // Ignore contact penalties

	mustUpdate(t, s, frame)
	if got := s.ActiveEnemies(); got != 3 {
		t.Errorf("active enemies = %d, timed spawn must not fire at 3 active", got)
	}
}

func TestSpawnPlacement(t *testing.T) {
	s := newTestSession(t, testConfig())
	radii := map[int]bool{}
	for _, r := range s.cfg.Session.EnemyRadii {
		radii[r] = true
	}

	for i := 0; i < 300; i++ {
		if err := s.spawnEnemy(); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range s.enemies[1:] {
		p := e.Position
		if p.X < 50 || p.X > 750 || p.Y < 50 || p.Y > 550 {
			t.Fatalf("enemy spawned outside the margin at %v", p)
		}
		if !radii[e.Radius] {
			t.Fatalf("enemy radius %d not in the configured set", e.Radius)
		}
		if e.Target() != Target(s.Player()) {
			t.Fatal("spawned enemy does not target the player")
		}
		if e.Speed < s.cfg.Enemy.MinSpeed || e.Speed > s.cfg.Enemy.MaxSpeed {
			t.Fatalf("enemy speed %f outside range", e.Speed)
		}
	}
}

func TestReplacementSpawnBound(t *testing.T) {
	s := newTestSession(t, testConfig())
	for len(s.enemies) < 6 {
		if err := s.spawnEnemy(); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range s.enemies {
		e.EstablishTarget(nil)
		e.Position = core.V(700, 100)
	}
	s.damageTimer = -1000

	// One dead among six: five active, no replacement allowed.
	s.enemies[0].Active = false
	mustUpdate(t, s, frame)
	if got := s.ActiveEnemies(); got != 5 {
		t.Errorf("active enemies = %d, replacement must not push past 5", got)
	}

	// Three dead at once: only one replacement per frame.
	for _, e := range s.enemies[:3] {
		e.Active = false
	}
	mustUpdate(t, s, frame)
	if got := s.ActiveEnemies(); got != 3 {
		t.Errorf("active enemies = %d, expected 2 survivors + 1 replacement", got)
	}
}

func TestLongRunInvariants(t *testing.T) {
	s := newTestSession(t, testConfig())
	rng := rand.New(rand.NewSource(99))
	seenGameOver := false

	for i := 0; i < 20000; i++ {
		if rng.Intn(10) == 0 {
			s.SteerPlayer(core.V(rng.Float64()*800, rng.Float64()*600))
		}
		if target, ok := s.NearestEnemy(); ok && rng.Intn(3) == 0 {
			if _, err := s.OnFire(target); err != nil {
				t.Fatal(err)
			}
		}
		mustUpdate(t, s, frame)

		if s.IsGameOver() {
			seenGameOver = true
		}
		if seenGameOver && s.Score() < 0 {
			t.Fatalf("score %d below zero after game over", s.Score())
		}
		if len(s.enemies) > 5 {
			t.Fatalf("frame %d: %d enemies alive", i, len(s.enemies))
		}
		for _, e := range s.enemies {
			if !e.Active {
				t.Fatal("inactive enemy survived the sweep")
			}
		}
		for _, c := range s.coins {
			if !c.Active {
				t.Fatal("inactive coin survived the sweep")
			}
		}
		if seenGameOver && rng.Intn(200) == 0 {
			if _, err := s.OnRestart(); err != nil {
				t.Fatal(err)
			}
			seenGameOver = false
		}
	}
}

func TestOnQuit(t *testing.T) {
	s := newTestSession(t, testConfig())
	s.OnQuit()

	if s.Running() {
		t.Error("OnQuit should stop the session")
	}
	mustUpdate(t, s, frame)
	if s.Elapsed() != 0 {
		t.Error("stopped session must not simulate")
	}
	if fired, _ := s.OnFire(core.V(0, 0)); fired {
		t.Error("stopped session must not fire")
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	s := newTestSession(t, testConfig())
	if _, err := s.OnFire(core.V(700, 300)); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if len(snap.Enemies) != 1 || len(snap.Projectiles) != 1 {
		t.Fatalf("snapshot enemies=%d projectiles=%d", len(snap.Enemies), len(snap.Projectiles))
	}
	if snap.Projectiles[0].Direction != core.V(1, 0) {
		t.Errorf("projectile direction = %v", snap.Projectiles[0].Direction)
	}

	snap.Enemies[0].Position = core.V(-1, -1)
	if s.Enemies()[0].Position == core.V(-1, -1) {
		t.Error("snapshot shares memory with the session")
	}

	s.enemies[0].Active = false
	if len(s.Snapshot().Enemies) != 0 {
		t.Error("inactive entities must not be rendered")
	}
}

func TestDeterministicSeed(t *testing.T) {
	run := func() uint64 {
		s, err := NewSession(testConfig(), field, rand.New(rand.NewSource(42)))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 1200; i++ {
			if i%7 == 0 {
				if target, ok := s.NearestEnemy(); ok {
					if _, err := s.OnFire(target); err != nil {
						t.Fatal(err)
					}
				}
			}
			mustUpdate(t, s, frame)
		}
		snap := s.Snapshot()
		return snap.Hash()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed produced different runs: %d != %d", a, b)
	}
}
