package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "skyraid.yaml"

// LoadSkyraid loads Sky Raid configuration.
// Search order: customPath -> ~/.skyraid/configs/skyraid.yaml -> ./configs/skyraid.yaml -> embedded default
//
// Files are decoded over DefaultSkyraidConfig, so a partial file only
// overrides the keys it names. An explicit customPath that cannot be read,
// parsed or validated is an error; the implicit locations are skipped when
// unusable.
func LoadSkyraid(customPath string) (SkyraidConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SkyraidConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return SkyraidConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultSkyraidYAML)
	if err != nil {
		return DefaultSkyraidConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (SkyraidConfig, error) {
	cfg := DefaultSkyraidConfig()
	// Lists replace rather than merge.
	cfg.Session.EnemyRadii = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SkyraidConfig{}, fmt.Errorf("parse: %w", err)
	}
	if len(cfg.Session.EnemyRadii) == 0 {
		cfg.Session.EnemyRadii = DefaultSkyraidConfig().Session.EnemyRadii
	}
	if err := cfg.Validate(); err != nil {
		return SkyraidConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skyraid", "configs", filename)
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values the simulation cannot run with.
func (c SkyraidConfig) Validate() error {
	if name, ok := c.firstNonFinite(); ok {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidConfig, name)
	}

	s := c.Session
	switch {
	case s.StartScore <= 0:
		return fmt.Errorf("%w: session.start_score must be > 0", ErrInvalidConfig)
	case s.KillPoints < 0 || s.DamagePenalty < 0:
		return fmt.Errorf("%w: session points must be >= 0", ErrInvalidConfig)
	case s.DamageCooldown < 0:
		return fmt.Errorf("%w: session.damage_cooldown must be >= 0", ErrInvalidConfig)
	case s.MinSpawnInterval <= 0 || s.SpawnInterval < s.MinSpawnInterval:
		return fmt.Errorf("%w: need 0 < min_spawn_interval <= spawn_interval", ErrInvalidConfig)
	case s.SpawnIntervalStep < 0:
		return fmt.Errorf("%w: session.spawn_interval_step must be >= 0", ErrInvalidConfig)
	case s.KillsPerLevel <= 0:
		return fmt.Errorf("%w: session.kills_per_level must be > 0", ErrInvalidConfig)
	case s.TimedSpawnBelow <= 0 || s.MaxEnemies < s.TimedSpawnBelow:
		return fmt.Errorf("%w: need 0 < timed_spawn_below <= max_enemies", ErrInvalidConfig)
	case s.SpawnMargin < 0:
		return fmt.Errorf("%w: session.spawn_margin must be >= 0", ErrInvalidConfig)
	case s.Backgrounds <= 0:
		return fmt.Errorf("%w: session.backgrounds must be > 0", ErrInvalidConfig)
	case s.MaxCoinValue <= 0:
		return fmt.Errorf("%w: session.max_coin_value must be > 0", ErrInvalidConfig)
	case len(s.EnemyRadii) == 0:
		return fmt.Errorf("%w: session.enemy_radii must not be empty", ErrInvalidConfig)
	}
	for _, r := range s.EnemyRadii {
		if r <= 0 {
			return fmt.Errorf("%w: session.enemy_radii must be > 0, got %d", ErrInvalidConfig, r)
		}
	}

	switch {
	case c.Player.Radius <= 0 || c.Player.Speed <= 0 || c.Player.FireCooldown < 0:
		return fmt.Errorf("%w: player radius and speed must be > 0", ErrInvalidConfig)
	case c.Enemy.MinSpeed <= 0 || c.Enemy.MaxSpeed < c.Enemy.MinSpeed:
		return fmt.Errorf("%w: need 0 < enemy.min_speed <= enemy.max_speed", ErrInvalidConfig)
	case c.Enemy.BaseHealth <= 0 || c.Enemy.HealthEveryLevels < 0:
		return fmt.Errorf("%w: enemy health settings out of range", ErrInvalidConfig)
	case c.Projectile.Speed <= 0 || c.Projectile.Radius <= 0 || c.Projectile.Life <= 0:
		return fmt.Errorf("%w: projectile speed, radius and life must be > 0", ErrInvalidConfig)
	case c.Coin.Radius <= 0 || c.Coin.Life <= 0:
		return fmt.Errorf("%w: coin radius and life must be > 0", ErrInvalidConfig)
	case c.Upgrades.MultiplierStep <= 0:
		return fmt.Errorf("%w: upgrades.multiplier_step must be > 0", ErrInvalidConfig)
	case c.Upgrades.MaxMissileSpeedMult < 1 || c.Upgrades.MaxFireRateMult < 1:
		return fmt.Errorf("%w: upgrade caps must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// firstNonFinite returns the key of the first float setting that is NaN or
// infinite. Comparisons against NaN are always false, so the range checks in
// Validate cannot catch it.
func (c SkyraidConfig) firstNonFinite() (string, bool) {
	fields := []struct {
		name string
		v    float64
	}{
		{"session.damage_cooldown", c.Session.DamageCooldown},
		{"session.spawn_interval", c.Session.SpawnInterval},
		{"session.min_spawn_interval", c.Session.MinSpawnInterval},
		{"session.spawn_interval_step", c.Session.SpawnIntervalStep},
		{"session.spawn_margin", c.Session.SpawnMargin},
		{"player.speed", c.Player.Speed},
		{"player.fire_cooldown", c.Player.FireCooldown},
		{"enemy.min_speed", c.Enemy.MinSpeed},
		{"enemy.max_speed", c.Enemy.MaxSpeed},
		{"projectile.speed", c.Projectile.Speed},
		{"projectile.life", c.Projectile.Life},
		{"coin.life", c.Coin.Life},
		{"coin.spin_rate", c.Coin.SpinRate},
		{"upgrades.multiplier_step", c.Upgrades.MultiplierStep},
		{"upgrades.max_missile_speed_mult", c.Upgrades.MaxMissileSpeedMult},
		{"upgrades.max_fire_rate_mult", c.Upgrades.MaxFireRateMult},
		{"difficulty.initial_level", c.Difficulty.InitialLevel},
		{"difficulty.scaling.speed_multiplier", c.Difficulty.Scaling.SpeedMultiplier},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return f.name, true
		}
	}
	return "", false
}

// ApplySkyraidPreset modifies the config based on a difficulty preset.
func ApplySkyraidPreset(cfg *SkyraidConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Session.StartScore = 15
		cfg.Session.SpawnInterval = 6.0
		cfg.Session.DamageCooldown = 1.5
	case DifficultyHard:
		cfg.Session.StartScore = 6
		cfg.Session.SpawnInterval = 4.0
		cfg.Session.DamageCooldown = 0.75
	}
	if cfg.Session.SpawnInterval < cfg.Session.MinSpawnInterval {
		cfg.Session.SpawnInterval = cfg.Session.MinSpawnInterval
	}
}
