package sandbox

import (
	"errors"
	"fmt"
)

// ErrInvalidProbability is returned for rules whose probability is outside [0, 1].
var ErrInvalidProbability = errors.New("reaction probability must be within [0, 1]")

// Rule transforms an ordered pair of adjacent kinds. Reactants[0] is the
// first participant of the lookup and becomes Products[0]. An undeclared
// product is KindEmpty.
type Rule struct {
	Reactants   [2]Kind
	Products    [2]Kind
	Probability float64
	Condition   func(a, b Cell) bool
}

// NewRule declares a rule that always fires when the pair meets.
func NewRule(a, b, outA, outB Kind) Rule {
	return Rule{
		Reactants:   [2]Kind{a, b},
		Products:    [2]Kind{outA, outB},
		Probability: 1,
	}
}

// WithProbability returns a copy of the rule gated by probability p.
func (r Rule) WithProbability(p float64) Rule {
	r.Probability = p
	return r
}

// WithCondition returns a copy of the rule that additionally requires fn to
// hold on the two live cells.
func (r Rule) WithCondition(fn func(a, b Cell) bool) Rule {
	r.Condition = fn
	return r
}

// Admits evaluates the rule's gate for a draw u in [0, 1).
func (r Rule) Admits(u float64, a, b Cell) bool {
	if u >= r.Probability {
		return false
	}
	return r.Condition == nil || r.Condition(a, b)
}

func (r Rule) String() string {
	return fmt.Sprintf("%s+%s->%s+%s p=%g", r.Reactants[0], r.Reactants[1], r.Products[0], r.Products[1], r.Probability)
}

// Table indexes rules by their ordered reactant pair, preserving declaration
// order within a pair. A Table is immutable once built.
type Table struct {
	rules  []Rule
	byPair map[[2]Kind][]Rule
}

// NewTable validates and indexes rules.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{
		rules:  make([]Rule, 0, len(rules)),
		byPair: make(map[[2]Kind][]Rule),
	}
	for i, r := range rules {
		if r.Probability < 0 || r.Probability > 1 {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r, ErrInvalidProbability)
		}
		if r.Reactants[0] >= numKinds || r.Reactants[1] >= numKinds || r.Products[0] >= numKinds || r.Products[1] >= numKinds {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r, ErrUnknownKind)
		}
		t.rules = append(t.rules, r)
		t.byPair[r.Reactants] = append(t.byPair[r.Reactants], r)
	}
	return t, nil
}

// MustNewTable is NewTable for static rule lists; it panics on invalid input.
func MustNewTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the candidate rules for the ordered pair (a, b) in
// declaration order. The result must not be modified.
func (t *Table) Lookup(a, b Kind) []Rule {
	if t == nil {
		return nil
	}
	return t.byPair[[2]Kind{a, b}]
}

// Rules returns a copy of the declaration list.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	return append([]Rule(nil), t.rules...)
}

// With returns a new table holding t's rules followed by extra.
func (t *Table) With(extra ...Rule) (*Table, error) {
	return NewTable(append(t.Rules(), extra...))
}

// DefaultRules is the built-in chemistry.
func DefaultRules() []Rule {
	return []Rule{
		NewRule(KindSand, KindWater, KindWetSand, KindEmpty),
		NewRule(KindLava, KindWater, KindStone, KindSteam),
		NewRule(KindLava, KindWetSand, KindLava, KindSand).WithProbability(0.5),
		NewRule(KindLava, KindSand, KindLava, KindStone).WithProbability(0.01),
		NewRule(KindSteam, KindSteam, KindWater, KindEmpty).WithProbability(0.005),
		NewRule(KindWetSand, KindEmpty, KindSand, KindEmpty).
			WithProbability(0.02).
			WithCondition(func(a, _ Cell) bool {
				return a.Property(PropMoisture) < KindWetSand.PropertySpec(PropMoisture).MinSaturation
			}),
	}
}

// DefaultTable builds a table from DefaultRules.
func DefaultTable() *Table {
	return MustNewTable(DefaultRules())
}
