// Package scenario loads sandbox starting states from YAML files: grid
// dimensions, physics tunables, extra reaction rules and a list of material
// placements painted onto the empty grid.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sandfall/pkg/sandbox"
)

// ErrInvalid wraps every validation failure reported by Parse and Load.
var ErrInvalid = errors.New("invalid scenario")

// Scenario describes a reproducible starting state.
type Scenario struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   *int64 `yaml:"seed,omitempty"`
	Motion string `yaml:"motion,omitempty"`

	Physics Physics `yaml:"physics,omitempty"`

	// ReplaceRules drops the built-in reaction table instead of extending it.
	ReplaceRules bool       `yaml:"replace_rules,omitempty"`
	Rules        []RuleSpec `yaml:"rules,omitempty"`

	Placements []Placement `yaml:"placements"`
}

// Physics overrides engine tunables. Nil fields keep the engine defaults.
type Physics struct {
	Gravity     *float32 `yaml:"gravity,omitempty"`
	MaxVelocity *float32 `yaml:"max_velocity,omitempty"`
	Depletion   *float32 `yaml:"depletion,omitempty"`
}

// RuleSpec is a reaction rule written with material names.
type RuleSpec struct {
	Reactants   [2]Kind  `yaml:"reactants"`
	Products    [2]Kind  `yaml:"products"`
	Probability *float64 `yaml:"probability,omitempty"`
	// MoistureBelow gates the rule on the first reactant's moisture.
	MoistureBelow *float32 `yaml:"moisture_below,omitempty"`
	MoistureAbove *float32 `yaml:"moisture_above,omitempty"`
}

// Kind is a material name that decodes into a sandbox.Kind.
type Kind sandbox.Kind

// UnmarshalYAML resolves a scalar material name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: material must be a name", node.Line)
	}
	parsed, err := sandbox.ParseKind(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = Kind(parsed)
	return nil
}

// MarshalYAML writes the material name.
func (k Kind) MarshalYAML() (any, error) {
	return sandbox.Kind(k).String(), nil
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario document. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks dimensions, physics limits, rule probabilities and
// placement shapes.
func (s *Scenario) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalid, s.Width, s.Height)
	}
	if _, err := sandbox.ParseMotion(s.Motion); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if v := s.Physics.MaxVelocity; v != nil && *v <= 0 {
		return fmt.Errorf("%w: max_velocity must be positive, got %g", ErrInvalid, *v)
	}
	if v := s.Physics.Depletion; v != nil && *v < 0 {
		return fmt.Errorf("%w: depletion must not be negative, got %g", ErrInvalid, *v)
	}
	if _, err := s.Table(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for i, p := range s.Placements {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: placement %d: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

// Table builds the reaction table for the scenario.
func (s *Scenario) Table() (*sandbox.Table, error) {
	var rules []sandbox.Rule
	if !s.ReplaceRules {
		rules = sandbox.DefaultRules()
	}
	for _, spec := range s.Rules {
		rules = append(rules, spec.rule())
	}
	return sandbox.NewTable(rules)
}

func (r RuleSpec) rule() sandbox.Rule {
	rule := sandbox.NewRule(
		sandbox.Kind(r.Reactants[0]), sandbox.Kind(r.Reactants[1]),
		sandbox.Kind(r.Products[0]), sandbox.Kind(r.Products[1]),
	)
	if r.Probability != nil {
		rule = rule.WithProbability(*r.Probability)
	}
	below, above := r.MoistureBelow, r.MoistureAbove
	if below != nil || above != nil {
		rule = rule.WithCondition(func(a, _ sandbox.Cell) bool {
			m := a.Property(sandbox.PropMoisture)
			if below != nil && m >= *below {
				return false
			}
			if above != nil && m <= *above {
				return false
			}
			return true
		})
	}
	return rule
}

// Configure applies the scenario's dimensions, seed, motion model, physics and
// rules on top of cfg.
func (s *Scenario) Configure(cfg *sandbox.Config) error {
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Motion != "" {
		m, err := sandbox.ParseMotion(s.Motion)
		if err != nil {
			return err
		}
		cfg.Motion = m
	}
	if v := s.Physics.Gravity; v != nil {
		cfg.Gravity = *v
	}
	if v := s.Physics.MaxVelocity; v != nil {
		cfg.MaxVelocity = *v
	}
	if v := s.Physics.Depletion; v != nil {
		cfg.DepletionThreshold = *v
	}
	table, err := s.Table()
	if err != nil {
		return err
	}
	cfg.Rules = table
	return nil
}

// Apply paints every placement onto sb in declaration order. Cells outside the
// grid are clipped.
func (s *Scenario) Apply(sb *sandbox.Sandbox) {
	for _, p := range s.Placements {
		p.paint(sb)
	}
}

// Build constructs a sandbox from the default config, the scenario overrides
// and its placements.
func (s *Scenario) Build() (*sandbox.Sandbox, error) {
	cfg := sandbox.DefaultConfig()
	if err := s.Configure(&cfg); err != nil {
		return nil, err
	}
	sb, err := sandbox.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	s.Apply(sb)
	return sb, nil
}
