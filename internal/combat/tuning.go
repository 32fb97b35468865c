package combat

import "wildfight/internal/config"

// Tuning holds the game-balance constants. They are data, not contract:
// only their direction (what raises or lowers what) is relied on by tests.
type Tuning struct {
	MaxTurns int
	GridSize int
	CellSize float64

	// Behavior state machine.
	BoldnessDecay   float64
	HoldPenalty     float64
	WeaknessMin     float64
	WeaknessMax     float64
	CorneredBase    float64
	CorneredCoef    float64
	DefaultRecovery float64

	// Morale event deltas.
	TookDamage         float64
	DealtDamage        float64
	AllyDamaged        float64
	AllyKilled         float64
	AllyFled           float64
	EnemyAdvanced      float64
	EnemyRetreated     float64
	RoundAdvanced      float64
	IntimidateSuccess  float64
	IntimidateFailure  float64
	ThreatDropPerMeter float64
	AnimalCohesion     float64
	NPCCohesion        float64
	RetaliationBonus   float64
	AlliesBonusPer     float64
	AlliesBonusMax     float64
	ApproachPull       float64
	CohesionPull       float64
	CohesionRange      float64

	// Mercy disengage.
	MercyBase              float64
	MercyPerIncapacitation float64
	MercyArmedFactor       float64
	MercyMax               float64
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxTurns: 100,
		GridSize: DefaultGridSize,
		CellSize: DefaultCellSize,

		BoldnessDecay:   0.03,
		HoldPenalty:     0.02,
		WeaknessMin:     0.05,
		WeaknessMax:     0.10,
		CorneredBase:    0.15,
		CorneredCoef:    0.50,
		DefaultRecovery: 2,

		TookDamage:         -0.5,
		DealtDamage:        0.3,
		AllyDamaged:        0.3,
		AllyKilled:         -2.0,
		AllyFled:           -1.0,
		EnemyAdvanced:      -0.1,
		EnemyRetreated:     0.05,
		RoundAdvanced:      0.01,
		IntimidateSuccess:  -0.3,
		IntimidateFailure:  -0.05,
		ThreatDropPerMeter: 0.05,
		AnimalCohesion:     0.3,
		NPCCohesion:        0.4,
		RetaliationBonus:   0.2,
		AlliesBonusPer:     0.05,
		AlliesBonusMax:     0.2,
		ApproachPull:       0.3,
		CohesionPull:       0.5,
		CohesionRange:      5,

		MercyBase:              0.1,
		MercyPerIncapacitation: 0.6,
		MercyArmedFactor:       0.5,
		MercyMax:               0.9,
	}
}

func overlay(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// NewTuning applies the non-zero fields of cfg over DefaultTuning.
func NewTuning(cfg *config.TuningConfig) Tuning {
	t := DefaultTuning()
	if cfg == nil {
		return t
	}
	if cfg.MaxTurns > 0 {
		t.MaxTurns = cfg.MaxTurns
	}
	if cfg.GridSize > 0 {
		t.GridSize = cfg.GridSize
	}
	overlay(&t.CellSize, cfg.CellSize)

	b := cfg.Boldness
	overlay(&t.BoldnessDecay, b.DecayPerTurn)
	overlay(&t.HoldPenalty, b.HoldPenalty)
	overlay(&t.WeaknessMin, b.WeaknessMin)
	overlay(&t.WeaknessMax, b.WeaknessMax)
	overlay(&t.CorneredBase, b.CorneredBase)
	overlay(&t.CorneredCoef, b.CorneredCoef)
	overlay(&t.DefaultRecovery, b.DefaultRecovery)

	m := cfg.Morale
	overlay(&t.TookDamage, m.TookDamage)
	overlay(&t.DealtDamage, m.DealtDamage)
	overlay(&t.AllyDamaged, m.AllyDamaged)
	overlay(&t.AllyKilled, m.AllyKilled)
	overlay(&t.AllyFled, m.AllyFled)
	overlay(&t.EnemyAdvanced, m.EnemyAdvanced)
	overlay(&t.EnemyRetreated, m.EnemyRetreated)
	overlay(&t.RoundAdvanced, m.RoundAdvanced)
	overlay(&t.IntimidateSuccess, m.IntimidateSuccess)
	overlay(&t.IntimidateFailure, m.IntimidateFailure)
	overlay(&t.ThreatDropPerMeter, m.ThreatDropPerMeter)
	overlay(&t.AnimalCohesion, m.AnimalCohesion)
	overlay(&t.NPCCohesion, m.NPCCohesion)
	overlay(&t.RetaliationBonus, m.RetaliationBonus)

	overlay(&t.MercyBase, cfg.Mercy.Base)
	overlay(&t.MercyPerIncapacitation, cfg.Mercy.PerIncapacitation)
	overlay(&t.MercyArmedFactor, cfg.Mercy.ArmedFactor)
	overlay(&t.MercyMax, cfg.Mercy.Max)
	return t
}
