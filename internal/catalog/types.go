// types.go
package catalog

import "github.com/xtding233/dropcalc/internal/drop"

// RawEntry is one catalog record as loaded from YAML. Every field is
// optional at this level; files are merged default -> source -> item.
type RawEntry struct {
	Version string     `yaml:"version"`
	Name    string     `yaml:"name,omitempty"`
	Drop    DropConfig `yaml:"drop"`
	Pity    *PityCfg   `yaml:"pity,omitempty"`
	Enrage  *EnrageCfg `yaml:"enrage,omitempty"`
	Effort  *EffortCfg `yaml:"effort,omitempty"`
	Notes   string     `yaml:"notes,omitempty"`
}

type DropConfig struct {
	Rate  *float64  `yaml:"rate,omitempty" validate:"omitempty,gt=0"`
	Table *TableCfg `yaml:"table,omitempty"`
	Luck  *bool     `yaml:"luck,omitempty"` // whether the luck bonus applies
}

// TableCfg is a two-stage drop: numerator/denominator to hit the table,
// weight/total_weight to pick the item from it.
type TableCfg struct {
	Numerator   int `yaml:"numerator" validate:"gt=0,ltefield=Denominator"`
	Denominator int `yaml:"denominator" validate:"gt=0"`
	Weight      int `yaml:"weight" validate:"gt=0,ltefield=TotalWeight"`
	TotalWeight int `yaml:"total_weight" validate:"gt=0"`
}

func (t TableCfg) compound() drop.CompoundConfig {
	return drop.CompoundConfig{
		StageNumerator:   t.Numerator,
		StageDenominator: t.Denominator,
		ItemWeight:       t.Weight,
		TotalWeight:      t.TotalWeight,
	}
}

type PityCfg struct {
	Start *int     `yaml:"start,omitempty" validate:"omitempty,gte=0"`
	Cap   *float64 `yaml:"cap,omitempty" validate:"omitempty,gt=0"`
}

type EnrageCfg struct {
	Kind  string   `yaml:"kind,omitempty"`
	Level *float64 `yaml:"level,omitempty" validate:"omitempty,gte=0"`
	Max   *float64 `yaml:"max,omitempty" validate:"omitempty,gte=0"` // search bound for target solving
}

type EffortCfg struct {
	KillsPerHour *float64 `yaml:"kills_per_hour,omitempty" validate:"omitempty,gt=0"`
	KillsPerTrip *int     `yaml:"kills_per_trip,omitempty" validate:"omitempty,gt=0"`
}
