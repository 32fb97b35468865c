package config

// TuningConfig overrides balance constants. Zero fields keep the engine
// defaults, so a file only needs to name what it changes.
type TuningConfig struct {
	MaxTurns int            `yaml:"max_turns"`
	GridSize int            `yaml:"grid_size"`
	CellSize float64        `yaml:"cell_size"`
	Boldness BoldnessTuning `yaml:"boldness"`
	Morale   MoraleTuning   `yaml:"morale"`
	Mercy    MercyTuning    `yaml:"mercy"`
	Note     string         `yaml:"note"`
}

type BoldnessTuning struct {
	DecayPerTurn    float64 `yaml:"decay_per_turn"`
	HoldPenalty     float64 `yaml:"hold_penalty"`
	WeaknessMin     float64 `yaml:"weakness_min"`
	WeaknessMax     float64 `yaml:"weakness_max"`
	CorneredBase    float64 `yaml:"cornered_base"`
	CorneredCoef    float64 `yaml:"cornered_coef"`
	DefaultRecovery float64 `yaml:"default_recovery_turns"`
}

type MoraleTuning struct {
	TookDamage         float64 `yaml:"took_damage"`
	DealtDamage        float64 `yaml:"dealt_damage"`
	AllyDamaged        float64 `yaml:"ally_damaged"`
	AllyKilled         float64 `yaml:"ally_killed"`
	AllyFled           float64 `yaml:"ally_fled"`
	EnemyAdvanced      float64 `yaml:"enemy_advanced"`
	EnemyRetreated     float64 `yaml:"enemy_retreated"`
	RoundAdvanced      float64 `yaml:"round_advanced"`
	IntimidateSuccess  float64 `yaml:"intimidate_success"`
	IntimidateFailure  float64 `yaml:"intimidate_failure"`
	ThreatDropPerMeter float64 `yaml:"threat_drop_per_meter"`
	AnimalCohesion     float64 `yaml:"animal_cohesion"`
	NPCCohesion        float64 `yaml:"npc_cohesion"`
	RetaliationBonus   float64 `yaml:"retaliation_bonus"`
}

type MercyTuning struct {
	Base              float64 `yaml:"base"`
	PerIncapacitation float64 `yaml:"per_incapacitation"`
	ArmedFactor       float64 `yaml:"armed_factor"`
	Max               float64 `yaml:"max"`
}
