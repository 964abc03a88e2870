// Package config provides YAML-based game configuration loading and
// difficulty management for Sky Raid.
package config

// SkyraidConfig contains all tunables for a Sky Raid session.
type SkyraidConfig struct {
	Session    SessionConfig    `yaml:"session"`
	Player     PlayerConfig     `yaml:"player"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Coin       CoinConfig       `yaml:"coin"`
	Upgrades   UpgradeConfig    `yaml:"upgrades"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SessionConfig defines scoring, spawning and level progression.
type SessionConfig struct {
	StartScore        int     `yaml:"start_score"`
	KillPoints        int     `yaml:"kill_points"`
	DamagePenalty     int     `yaml:"damage_penalty"`
	DamageCooldown    float64 `yaml:"damage_cooldown"`     // Seconds between contact penalties
	SpawnInterval     float64 `yaml:"spawn_interval"`      // Seconds between timed spawns at level 1
	MinSpawnInterval  float64 `yaml:"min_spawn_interval"`  // Floor reached after enough level-ups
	SpawnIntervalStep float64 `yaml:"spawn_interval_step"` // Reduction per level-up
	KillsPerLevel     int     `yaml:"kills_per_level"`
	TimedSpawnBelow   int     `yaml:"timed_spawn_below"` // Timed spawn only while fewer enemies are active
	MaxEnemies        int     `yaml:"max_enemies"`       // Replacement spawn only while fewer enemies are active
	SpawnMargin       float64 `yaml:"spawn_margin"`
	EnemyRadii        []int   `yaml:"enemy_radii"`
	Backgrounds       int     `yaml:"backgrounds"`
	MaxCoinValue      int     `yaml:"max_coin_value"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	Radius       int     `yaml:"radius"`
	Speed        float64 `yaml:"speed"`         // Steering speed in px/s
	FireCooldown float64 `yaml:"fire_cooldown"` // Seconds between shots before upgrades
}

// EnemyConfig defines enemy ships.
type EnemyConfig struct {
	MinSpeed          float64 `yaml:"min_speed"`
	MaxSpeed          float64 `yaml:"max_speed"`
	BaseHealth        int     `yaml:"base_health"`
	HealthEveryLevels int     `yaml:"health_every_levels"` // Levels per extra hit point, 0 disables growth
}

// ProjectileConfig defines missiles fired by the player.
type ProjectileConfig struct {
	Speed  float64 `yaml:"speed"`
	Radius int     `yaml:"radius"`
	Life   float64 `yaml:"life"`
}

// CoinConfig defines bonus coins dropped by destroyed enemies.
type CoinConfig struct {
	Radius   int     `yaml:"radius"`
	Life     float64 `yaml:"life"`
	SpinRate float64 `yaml:"spin_rate"` // Radians per second
}

// UpgradeConfig defines how coin rewards modify the player.
type UpgradeConfig struct {
	MultiplierStep      float64 `yaml:"multiplier_step"` // Multiplier gain per reward point
	MaxMissileSpeedMult float64 `yaml:"max_missile_speed_mult"`
	MaxFireRateMult     float64 `yaml:"max_fire_rate_mult"`
}

// DifficultyConfig defines how enemy speed ramps with the session level.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Session level at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Enemy speed gain at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset converts a flag value into a preset.
func ParsePreset(s string) (DifficultyPreset, bool) {
	for _, p := range Presets {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.2
	case DifficultyHard:
		return 0.5
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
