package sand

import (
	"strconv"

	"sandfall/pkg/sandbox"
)

// Config controls the sand sim. Engine holds the sandbox configuration; the
// remaining fields only matter to the host.
type Config struct {
	Engine sandbox.Config

	// Scenario is an optional YAML file painted onto the grid on every reset.
	Scenario string
	// Fill seeds a random sand-and-water scatter when no scenario is given.
	Fill float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Engine: sandbox.DefaultConfig(),
		Fill:   0,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Malformed values keep their defaults; an unknown motion model is reported.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Engine.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Engine.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Engine.Seed = parsed
		}
	}
	if v, ok := cfg["motion"]; ok {
		m, err := sandbox.ParseMotion(v)
		if err != nil {
			return c, err
		}
		c.Engine.Motion = m
	}
	if v, ok := cfg["gravity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Engine.Gravity = float32(parsed)
		}
	}
	if v, ok := cfg["max_velocity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.Engine.MaxVelocity = float32(parsed)
		}
	}
	if v, ok := cfg["depletion"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 {
			c.Engine.DepletionThreshold = float32(parsed)
		}
	}
	if v, ok := cfg["fill"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Fill = parsed
		}
	}
	if v, ok := cfg["scenario"]; ok {
		c.Scenario = v
	}
	return c, nil
}
