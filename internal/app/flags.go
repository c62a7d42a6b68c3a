package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64

	Width    int
	Height   int
	Motion   string
	Scenario string
	Fill     float64
	Panel    int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "sand", Scale: 4, TPS: 60, Seed: 1337, Width: 200, Height: 150, Motion: "swap", Panel: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.StringVar(&c.Motion, "motion", c.Motion, "movement model: swap or velocity")
	fs.StringVar(&c.Scenario, "scenario", c.Scenario, "YAML scenario painted on reset")
	fs.Float64Var(&c.Fill, "fill", c.Fill, "fraction of the top half scattered with sand and water")
	fs.IntVar(&c.Panel, "panel", c.Panel, "HUD panel width in pixels, 0 hides it")
}

// SimConfig renders the sim-facing options as the key/value map factories
// consume.
func (c *Config) SimConfig() map[string]string {
	m := map[string]string{
		"w":      strconv.Itoa(c.Width),
		"h":      strconv.Itoa(c.Height),
		"seed":   strconv.FormatInt(c.Seed, 10),
		"motion": c.Motion,
	}
	if c.Scenario != "" {
		m["scenario"] = c.Scenario
	}
	if c.Fill > 0 {
		m["fill"] = strconv.FormatFloat(c.Fill, 'f', -1, 64)
	}
	return m
}
