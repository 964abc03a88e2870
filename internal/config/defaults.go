package config

import (
	_ "embed"
)

//go:embed defaults/skyraid.yaml
var defaultSkyraidYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultSkyraidYAML))
	copy(out, defaultSkyraidYAML)
	return out
}

// DefaultSkyraidConfig returns the built-in Sky Raid configuration.
// It mirrors defaults/skyraid.yaml and is used when the embedded file
// cannot be parsed.
func DefaultSkyraidConfig() SkyraidConfig {
	return SkyraidConfig{
		Session: SessionConfig{
			StartScore:        10,
			KillPoints:        1,
			DamagePenalty:     2,
			DamageCooldown:    1.0,
			SpawnInterval:     5.0,
			MinSpawnInterval:  2.0,
			SpawnIntervalStep: 0.5,
			KillsPerLevel:     3,
			TimedSpawnBelow:   3,
			MaxEnemies:        5,
			SpawnMargin:       50,
			EnemyRadii:        []int{10, 15, 20, 25, 30},
			Backgrounds:       5,
			MaxCoinValue:      3,
		},
		Player: PlayerConfig{
			Radius:       20,
			Speed:        420,
			FireCooldown: 0.25,
		},
		Enemy: EnemyConfig{
			MinSpeed:          60,
			MaxSpeed:          120,
			BaseHealth:        1,
			HealthEveryLevels: 3,
		},
		Projectile: ProjectileConfig{
			Speed:  300,
			Radius: 8,
			Life:   2.0,
		},
		Coin: CoinConfig{
			Radius:   15,
			Life:     10.0,
			SpinRate: 3.0,
		},
		Upgrades: UpgradeConfig{
			MultiplierStep:      0.1,
			MaxMissileSpeedMult: 3.0,
			MaxFireRateMult:     3.0,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}
