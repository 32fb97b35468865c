package config

type SpeciesConfig struct {
	Species []SpeciesDef `yaml:"species"`
}

type SpeciesDef struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	Tactics          string  `yaml:"tactics"` // stalker | pack
	MaxHP            float64 `yaml:"max_hp"`
	Strength         float64 `yaml:"strength"`
	Speed            float64 `yaml:"speed"`
	BaseThreat       float64 `yaml:"base_threat"`
	BaseAggression   float64 `yaml:"base_aggression"`
	StartingBoldness float64 `yaml:"starting_boldness"`
	RecoveryTurns    float64 `yaml:"recovery_turns"`
	BiteDamage       float64 `yaml:"bite_damage"`
	DamageType       string  `yaml:"damage_type"`
	Accuracy         float64 `yaml:"accuracy"`
	Note             string  `yaml:"note"`
}
