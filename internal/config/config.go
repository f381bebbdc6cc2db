// Package config provides YAML-based configuration loading and difficulty
// presets for the runner and the rewards economy around it.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Game    RunnerConfig  `yaml:"game"`
	Economy EconomyConfig `yaml:"economy"`
	Ads     AdsConfig     `yaml:"ads"`
	Trivia  TriviaConfig  `yaml:"trivia"`
	Remote  RemoteConfig  `yaml:"remote"`
}

// RunnerConfig contains all tuning for the lane runner simulation.
type RunnerConfig struct {
	Track     RunnerTrack     `yaml:"track"`
	Physics   RunnerPhysics   `yaml:"physics"`
	Spawn     RunnerSpawn     `yaml:"spawn"`
	Hitbox    RunnerHitbox    `yaml:"hitbox"`
	Powerups  RunnerPowerups  `yaml:"powerups"`
	Particles RunnerParticles `yaml:"particles"`
	Countdown RunnerCountdown `yaml:"countdown"`
}

// RunnerTrack defines the track geometry in canvas units.
type RunnerTrack struct {
	Lanes        int     `yaml:"lanes"`
	LaneWidth    float64 `yaml:"lane_width"`
	Height       float64 `yaml:"height"`        // Far edge; entities past it are culled
	PlayerSize   float64 `yaml:"player_size"`   // Player sprite height
	PlayerMargin float64 `yaml:"player_margin"` // Gap between player sprite and bottom edge
}

// Width returns the total track width.
func (t RunnerTrack) Width() float64 {
	return float64(t.Lanes) * t.LaneWidth
}

// LaneCenter returns the horizontal center of a lane.
func (t RunnerTrack) LaneCenter(lane int) float64 {
	return float64(lane)*t.LaneWidth + t.LaneWidth/2
}

// PlayerY returns the fixed vertical position of the player hitbox center.
func (t RunnerTrack) PlayerY() float64 {
	return t.Height - t.PlayerSize - t.PlayerMargin
}

// RunnerPhysics defines speed and scoring parameters.
type RunnerPhysics struct {
	BaseSpeed    float64 `yaml:"base_speed"`
	SpeedDivisor float64 `yaml:"speed_divisor"` // Score units per +1 speed; 0 disables the ramp
	Smoothing    float64 `yaml:"smoothing"`     // Fraction of the lane gap covered per tick
	ScorePerTick float64 `yaml:"score_per_tick"`
	StartLane    int     `yaml:"start_lane"`
}

// RunnerSpawn defines spawn position, cadence and odds.
type RunnerSpawn struct {
	StartY       float64 `yaml:"start_y"`
	BaseInterval int     `yaml:"base_interval"` // Ticks between spawns at score 0
	MinInterval  int     `yaml:"min_interval"`
	IntervalStep float64 `yaml:"interval_step"` // Score needed to shorten the interval by one tick
	PowerupAbove float64 `yaml:"powerup_above"` // roll > this spawns a powerup
	CoinAbove    float64 `yaml:"coin_above"`    // roll > this (and not a powerup) spawns a coin
}

// RunnerHitbox defines the player collision box.
type RunnerHitbox struct {
	HalfWidth    float64 `yaml:"half_width"`
	HalfHeight   float64 `yaml:"half_height"`
	EntityOffset float64 `yaml:"entity_offset"` // Added to entity Y to get its collision center
}

// RunnerPowerups defines magnet and shield behavior.
type RunnerPowerups struct {
	MagnetDuration      time.Duration `yaml:"magnet_duration"`
	MagnetRadius        float64       `yaml:"magnet_radius"`
	MagnetPull          float64       `yaml:"magnet_pull"` // Extra forward movement per tick for attracted coins
	PauseSuspendsTimers bool          `yaml:"pause_suspends_timers"`
}

// RunnerParticles defines feedback particle bursts.
type RunnerParticles struct {
	Decay        float64 `yaml:"decay"`
	Spread       float64 `yaml:"spread"`
	CoinBurst    int     `yaml:"coin_burst"`
	ShieldBurst  int     `yaml:"shield_burst"`
	PowerupBurst int     `yaml:"powerup_burst"`
}

// RunnerCountdown defines the pre-run countdown.
type RunnerCountdown struct {
	From int           `yaml:"from"`
	Step time.Duration `yaml:"step"`
}

// EconomyConfig defines the coin and cash rules. Money is in paisa
// (1/100 taka).
type EconomyConfig struct {
	CoinValue        int64 `yaml:"coin_value"`         // Paisa credited per exchanged coin
	MinExchangeCoins int   `yaml:"min_exchange_coins"` // Wallet screen minimum
	MinWithdrawal    int64 `yaml:"min_withdrawal"`
	ReferralBonus    int64 `yaml:"referral_bonus"`
	AdRewardCoins    int   `yaml:"ad_reward_coins"`
}

// AdsConfig defines the reward ad flow.
type AdsConfig struct {
	Delay time.Duration `yaml:"delay"`
	Link  string        `yaml:"link"`
}

// TriviaConfig defines the AI challenge content source.
type TriviaConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxReward int64         `yaml:"max_reward"` // Taka; generated rewards are capped here
	APIKey    string        `yaml:"-"`          // GEMINI_API_KEY
}

// RemoteConfig defines the remote profile document store.
type RemoteConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	QueueSize int           `yaml:"queue_size"`
	Token     string        `yaml:"-"` // CASHRUN_REMOTE_TOKEN
}

// Enabled reports whether a remote store is configured.
func (r RemoteConfig) Enabled() bool {
	return r.URL != ""
}
