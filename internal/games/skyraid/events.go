package skyraid

import "github.com/vovakirdan/skyraid/internal/core"

// Event is something notable that happened during an Update.
// The platform drains events every frame for logging and feedback.
type Event interface {
	sessionEvent()
}

// EnemyKilled is recorded when a missile destroys an enemy.
type EnemyKilled struct {
	Position core.Vec2
	Score    int
}

func (EnemyKilled) sessionEvent() {}

// LevelUp is recorded when the kill quota for a level is reached.
type LevelUp struct {
	Level         int
	SpawnInterval float64
}

func (LevelUp) sessionEvent() {}

// PlayerHit is recorded when an enemy rams the player outside the
// damage cooldown.
type PlayerHit struct {
	Penalty int
	Score   int
}

func (PlayerHit) sessionEvent() {}

// CoinCollected is recorded when the player picks up a coin.
type CoinCollected struct {
	Reward  Reward
	Message string
}

func (CoinCollected) sessionEvent() {}

// GameOver is recorded once when the score runs out.
type GameOver struct {
	Level int
	Kills int
}

func (GameOver) sessionEvent() {}
