package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind identifies a chargeable subscription action.
type Kind string

const (
	KindExtend   Kind = "extend"
	KindActivate Kind = "activate"
)

// Action is the fixed duration/cost pair resolved for an action kind.
// These are static table lookups, not remote calls.
type Action struct {
	DurationDays int     `yaml:"duration_days"`
	Cost         float64 `yaml:"cost"`
}

// Table holds the duration/cost pairs for every action kind.
type Table struct {
	Currency string `yaml:"currency"`
	Extend   Action `yaml:"extend"`
	Activate Action `yaml:"activate"`
}

// Default returns the carrier's current list prices.
func Default() Table {
	return Table{
		Currency: "₪",
		Extend:   Action{DurationDays: 30, Cost: 30},
		Activate: Action{DurationDays: 90, Cost: 79},
	}
}

// Load reads a pricing table from a YAML file, overlaying the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Table, error) {
	table := Default()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read pricing file: %w", err)
	}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("parse pricing file %s: %w", path, err)
	}
	if err := table.validate(); err != nil {
		return Table{}, fmt.Errorf("pricing file %s: %w", path, err)
	}
	return table, nil
}

func (t Table) validate() error {
	for kind, a := range map[Kind]Action{KindExtend: t.Extend, KindActivate: t.Activate} {
		if a.DurationDays <= 0 {
			return fmt.Errorf("%s: duration_days must be positive, got %d", kind, a.DurationDays)
		}
		if a.Cost < 0 {
			return fmt.Errorf("%s: cost must not be negative, got %.2f", kind, a.Cost)
		}
	}
	return nil
}

// Resolve returns the duration/cost pair for the given action kind.
func (t Table) Resolve(kind Kind) (Action, error) {
	switch kind {
	case KindExtend:
		return t.Extend, nil
	case KindActivate:
		return t.Activate, nil
	default:
		return Action{}, fmt.Errorf("unknown action kind: %s", kind)
	}
}
