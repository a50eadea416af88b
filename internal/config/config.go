package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"concord/internal/budget"
	"concord/internal/debate"
	"concord/internal/finding"
)

// Config carries every engine tunable. Values resolve in three layers:
// defaults, then an optional YAML file, then environment variables.
type Config struct {
	Model string

	ContradictionThreshold float64
	Epsilon                float64

	TurnCaps              debate.TurnCaps
	ConvergenceSimilarity float64
	MaxParallel           int
	DebateWindow          int

	ReservedTail   time.Duration
	PerCallTimeout time.Duration

	RPS            float64
	Burst          int
	RetryAttempts  int
	RetryBaseDelay time.Duration

	FactCacheSize int
}

func Default() Config {
	return Config{
		Model:                  "gemini-2.0-flash",
		ContradictionThreshold: finding.DefaultThreshold,
		Epsilon:                0,
		TurnCaps:               debate.DefaultTurnCaps(),
		ConvergenceSimilarity:  debate.DefaultConvergenceSimilarity,
		MaxParallel:            4,
		DebateWindow:           6,
		ReservedTail:           budget.DefaultReservedTail,
		PerCallTimeout:         budget.DefaultPerCallTimeout,
		RPS:                    2,
		Burst:                  4,
		RetryAttempts:          3,
		RetryBaseDelay:         500 * time.Millisecond,
		FactCacheSize:          128,
	}
}

// fileConfig is the YAML shape: pointers so unset keys keep their defaults,
// strings for durations ("15s").
type fileConfig struct {
	Model                  *string  `yaml:"model"`
	ContradictionThreshold *float64 `yaml:"contradiction_threshold"`
	Epsilon                *float64 `yaml:"epsilon"`
	TurnCaps               *struct {
		Simple   *int `yaml:"simple"`
		Medium   *int `yaml:"medium"`
		Complex  *int `yaml:"complex"`
		Critical *int `yaml:"critical"`
	} `yaml:"turn_caps"`
	ConvergenceSimilarity *float64 `yaml:"convergence_similarity"`
	MaxParallel           *int     `yaml:"max_parallel"`
	DebateWindow          *int     `yaml:"debate_window"`
	ReservedTail          *string  `yaml:"reserved_tail"`
	PerCallTimeout        *string  `yaml:"per_call_timeout"`
	RPS                   *float64 `yaml:"rps"`
	Burst                 *int     `yaml:"burst"`
	RetryAttempts         *int     `yaml:"retry_attempts"`
	RetryBaseDelay        *string  `yaml:"retry_base_delay"`
	FactCacheSize         *int     `yaml:"fact_cache_size"`
}

// Load resolves the configuration. path may be empty to skip the file layer.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := fc.apply(&cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setDuration := func(dst *time.Duration, src *string) error {
		if src == nil {
			return nil
		}
		d, err := time.ParseDuration(*src)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}

	setString(&cfg.Model, fc.Model)
	setFloat(&cfg.ContradictionThreshold, fc.ContradictionThreshold)
	setFloat(&cfg.Epsilon, fc.Epsilon)
	if fc.TurnCaps != nil {
		setInt(&cfg.TurnCaps.Simple, fc.TurnCaps.Simple)
		setInt(&cfg.TurnCaps.Medium, fc.TurnCaps.Medium)
		setInt(&cfg.TurnCaps.Complex, fc.TurnCaps.Complex)
		setInt(&cfg.TurnCaps.Critical, fc.TurnCaps.Critical)
	}
	setFloat(&cfg.ConvergenceSimilarity, fc.ConvergenceSimilarity)
	setInt(&cfg.MaxParallel, fc.MaxParallel)
	setInt(&cfg.DebateWindow, fc.DebateWindow)
	if err := setDuration(&cfg.ReservedTail, fc.ReservedTail); err != nil {
		return fmt.Errorf("reserved_tail: %w", err)
	}
	if err := setDuration(&cfg.PerCallTimeout, fc.PerCallTimeout); err != nil {
		return fmt.Errorf("per_call_timeout: %w", err)
	}
	setFloat(&cfg.RPS, fc.RPS)
	setInt(&cfg.Burst, fc.Burst)
	setInt(&cfg.RetryAttempts, fc.RetryAttempts)
	if err := setDuration(&cfg.RetryBaseDelay, fc.RetryBaseDelay); err != nil {
		return fmt.Errorf("retry_base_delay: %w", err)
	}
	setInt(&cfg.FactCacheSize, fc.FactCacheSize)
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CONCORD_MODEL")); v != "" {
		cfg.Model = v
	}
	envFloat("CONCORD_CONTRADICTION_THRESHOLD", &cfg.ContradictionThreshold)
	envFloat("CONCORD_CONVERGENCE_SIMILARITY", &cfg.ConvergenceSimilarity)
	envInt("CONCORD_MAX_PARALLEL", &cfg.MaxParallel)
	envDuration("CONCORD_RESERVED_TAIL", &cfg.ReservedTail)
	envDuration("CONCORD_PER_CALL_TIMEOUT", &cfg.PerCallTimeout)
	envFloat("CONCORD_RPS", &cfg.RPS)
	envInt("CONCORD_FACT_CACHE_SIZE", &cfg.FactCacheSize)
}

func envFloat(key string, dst *float64) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	if v, err := time.ParseDuration(raw); err == nil {
		*dst = v
	}
}
