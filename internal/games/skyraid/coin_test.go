package skyraid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/skyraid/internal/config"
	"github.com/vovakirdan/skyraid/internal/core"
)

func TestCoinCollectOnce(t *testing.T) {
	c, err := NewCoin(core.V(10, 10), RewardPoints, 3, config.DefaultSkyraidConfig().Coin)
	if err != nil {
		t.Fatal(err)
	}

	r, ok := c.Collect()
	if !ok {
		t.Fatal("first Collect() should succeed")
	}
	if r.Kind != RewardPoints || r.Value != 3 || r.Points != 3 {
		t.Errorf("reward = %+v, expected points 3", r)
	}
	if c.Active {
		t.Error("collected coin should be inactive")
	}

	if r, ok := c.Collect(); ok || r != (Reward{}) {
		t.Errorf("second Collect() = %+v, %v; expected zero reward, false", r, ok)
	}
}

func TestCoinRewardPointsOnlyForPoints(t *testing.T) {
	for _, k := range []RewardKind{RewardSpeed, RewardDamage, RewardFireRate} {
		c, err := NewCoin(core.V(0, 0), k, 2, config.DefaultSkyraidConfig().Coin)
		if err != nil {
			t.Fatal(err)
		}
		if r, _ := c.Collect(); r.Points != 0 {
			t.Errorf("%s coin gave %d points", k, r.Points)
		}
	}
}

func TestCoinLifetime(t *testing.T) {
	cfg := config.CoinConfig{Radius: 15, Life: 1, SpinRate: 3}
	c, err := NewCoin(core.V(0, 0), RewardSpeed, 1, cfg)
	if err != nil {
		t.Fatal(err)
	}

	c.Update(0.5)
	if !approx(c.LifeRatio(), 0.5) {
		t.Errorf("LifeRatio() = %f, expected 0.5", c.LifeRatio())
	}
	if !approx(c.Spin, 1.5) {
		t.Errorf("Spin = %f, expected 1.5", c.Spin)
	}

	c.Update(0.5)
	if c.Active {
		t.Error("coin should expire when its life reaches zero")
	}
	if c.LifeRatio() != 0 {
		t.Errorf("LifeRatio() = %f, expected 0", c.LifeRatio())
	}
	if _, ok := c.Collect(); ok {
		t.Error("expired coin must not be collectable")
	}
}

func TestNewCoinRejectsBadReward(t *testing.T) {
	cfg := config.DefaultSkyraidConfig().Coin
	if _, err := NewCoin(core.V(0, 0), RewardKind(-1), 1, cfg); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad kind: error = %v", err)
	}
	if _, err := NewCoin(core.V(0, 0), RewardSpeed, 0, cfg); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero value: error = %v", err)
	}
}

func TestNewRandomCoinCoversKinds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := make(map[RewardKind]bool)
	for i := 0; i < 200; i++ {
		c, err := NewRandomCoin(core.V(0, 0), 1, config.DefaultSkyraidConfig().Coin, rng)
		if err != nil {
			t.Fatal(err)
		}
		seen[c.RewardKind] = true
	}
	if len(seen) != len(RewardKinds) {
		t.Errorf("random coins produced kinds %v, expected all %d", seen, len(RewardKinds))
	}
}

func TestParseRewardKind(t *testing.T) {
	for _, k := range RewardKinds {
		got, err := ParseRewardKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseRewardKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseRewardKind("shield"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseRewardKind(shield) error = %v", err)
	}
}
