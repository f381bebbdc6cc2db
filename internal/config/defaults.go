package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/cashrun.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game:    DefaultRunnerConfig(),
		Economy: DefaultEconomyConfig(),
		Ads: AdsConfig{
			Delay: 3 * time.Second,
			Link:  "https://www.google.com",
		},
		Trivia: TriviaConfig{
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta",
			Model:     "gemini-2.5-flash",
			Timeout:   15 * time.Second,
			MaxReward: 10,
		},
		Remote: RemoteConfig{
			Timeout:   5 * time.Second,
			QueueSize: 64,
		},
	}
}

// DefaultRunnerConfig returns the default runner tuning.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Track: RunnerTrack{
			Lanes:        3,
			LaneWidth:    100,
			Height:       600,
			PlayerSize:   40,
			PlayerMargin: 50,
		},
		Physics: RunnerPhysics{
			BaseSpeed:    6,
			SpeedDivisor: 1000,
			Smoothing:    0.2,
			ScorePerTick: 0.5,
			StartLane:    1,
		},
		Spawn: RunnerSpawn{
			StartY:       -60,
			BaseInterval: 60,
			MinInterval:  30,
			IntervalStep: 100,
			PowerupAbove: 0.95,
			CoinAbove:    0.6,
		},
		Hitbox: RunnerHitbox{
			HalfWidth:    40,
			HalfHeight:   50,
			EntityOffset: 20,
		},
		Powerups: RunnerPowerups{
			MagnetDuration:      8 * time.Second,
			MagnetRadius:        250,
			MagnetPull:          5,
			PauseSuspendsTimers: true,
		},
		Particles: RunnerParticles{
			Decay:        0.05,
			Spread:       10,
			CoinBurst:    5,
			ShieldBurst:  10,
			PowerupBurst: 10,
		},
		Countdown: RunnerCountdown{
			From: 3,
			Step: time.Second,
		},
	}
}

// DefaultEconomyConfig returns the default economy: 100 coins = ৳2.00,
// ৳100 minimum withdrawal, ৳5 referral bonus, 100 coins per ad.
func DefaultEconomyConfig() EconomyConfig {
	return EconomyConfig{
		CoinValue:        2,
		MinExchangeCoins: 100,
		MinWithdrawal:    10000,
		ReferralBonus:    500,
		AdRewardCoins:    100,
	}
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultYAML
}
