package combat

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"wildfight/internal/config"
)

// scriptedRand replays vals in a loop; an empty script always returns 0.5.
type scriptedRand struct {
	vals []float64
	i    int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0.5
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float64() * float64(n))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEncounter(t *testing.T, rng Rand) *Encounter {
	t.Helper()
	return NewEncounter(Options{ID: "test", Seed: 1, Rand: rng, Logger: quietLogger(), Record: true})
}

func testKnife() *Weapon {
	return &Weapon{ID: "knife", Name: "knife", Class: WeaponMelee, Damage: 12, Condition: 1, DamageType: DamageSharp}
}

func newTestPlayer(w *Weapon) *Unit {
	return NewUnit(PlayerID, KindPlayer, TeamPlayer, NewCreature("you", 100, 1, 1, w))
}

func newTestWolf(id UnitID, mode DecisionMode) *Unit {
	sp := fallbackSpecies
	sp.ID, sp.Name, sp.Mode = "wolf", "wolf", mode
	return NewAnimal(id, TeamHostile, sp, NewCreature("wolf", 45, 0.9, 1.5, sp.NaturalWeapon()))
}

func creature(u *Unit) *Creature {
	return u.Actor.(*Creature)
}

func mustAdd(t *testing.T, e *Encounter, u *Unit, x, y int) {
	t.Helper()
	if err := e.AddUnit(u, Position{X: x, Y: y}); err != nil {
		t.Fatalf("add %s: %v", u.ID, err)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testLibrary() Library {
	sc := &config.SpeciesConfig{Species: []config.SpeciesDef{
		{ID: "wolf", Name: "wolf", Tactics: "pack", MaxHP: 45, Strength: 0.9, Speed: 1.5, BaseThreat: 0.5,
			BaseAggression: 0.5, StartingBoldness: 0.55, RecoveryTurns: 1, BiteDamage: 9, DamageType: "bite", Accuracy: 0.7},
		{ID: "cougar", Name: "cougar", Tactics: "stalker", MaxHP: 70, Strength: 1.3, Speed: 1.6, BaseThreat: 0.7,
			BaseAggression: 0.55, StartingBoldness: 0.8, RecoveryTurns: 2, BiteDamage: 16, DamageType: "claw", Accuracy: 0.7},
	}}
	wc := &config.WeaponsConfig{Weapons: []config.WeaponDef{
		{ID: "knife", Class: "melee", Damage: 12, DamageType: "sharp"},
		{ID: "spear", Class: "reach", Damage: 15, DamageType: "pierce"},
	}}
	return NewLibrary(sc, wc, nil)
}

func testScenario() *config.ScenarioConfig {
	return &config.ScenarioConfig{
		ID:     "test_pack",
		Player: config.CombatantDef{Name: "you", MaxHP: 100, Strength: 1, Speed: 1, Weapon: "knife", Items: []string{"rock"}},
		Allies: []config.CombatantDef{
			{Name: "Tess", MaxHP: 80, Strength: 1, Speed: 1, Weapon: "spear", Relationship: 0.9},
		},
		Hostiles: []config.HostileDef{
			{Species: "wolf", Count: 2, Distance: 17, Angle: 0, Spread: 30},
			{Species: "cougar", Count: 1, Distance: 14, Angle: 200, Spread: 25},
		},
		PrimaryTarget: 2,
		Reinforcements: []config.ReinforcementDef{
			{Turn: 2, Hostile: config.HostileDef{Species: "wolf", Count: 1, Distance: 16, Angle: 90, Spread: 25}},
		},
	}
}
