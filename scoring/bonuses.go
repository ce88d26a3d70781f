package scoring

// Bonuses are the fixed score additions for non-feature matches.
type Bonuses struct {
	ExactLocation  float64 `yaml:"exact_location"`
	NearbyLocation float64 `yaml:"nearby_location"`
	ExactType      float64 `yaml:"exact_type"`
	AdjacentSize   float64 `yaml:"adjacent_size"` // ±1 BHK
	WithinBudget   float64 `yaml:"within_budget"`
	NearBudget     float64 `yaml:"near_budget"`
	// NearBudgetTolerance is the fraction outside a non-strict bound that
	// still earns NearBudget.
	NearBudgetTolerance float64 `yaml:"near_budget_tolerance"`
}

// DefaultBonuses returns the standard bonus table.
func DefaultBonuses() Bonuses {
	return Bonuses{
		ExactLocation:       2.0,
		NearbyLocation:      1.0,
		ExactType:           2.0,
		AdjacentSize:        1.0,
		WithinBudget:        1.5,
		NearBudget:          0.5,
		NearBudgetTolerance: 0.10,
	}
}
