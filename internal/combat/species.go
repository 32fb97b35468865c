package combat

import (
	"sort"
	"strings"

	"wildfight/internal/config"
)

type Species struct {
	ID               string
	Name             string
	Mode             DecisionMode
	MaxHP            float64
	Strength         float64
	Speed            float64
	BaseThreat       float64
	BaseAggression   float64
	StartingBoldness float64
	RecoveryTurns    float64
	BiteDamage       float64
	DamageType       DamageType
	Accuracy         float64
}

// NaturalWeapon is the bite/claw an animal fights with.
func (s Species) NaturalWeapon() *Weapon {
	return &Weapon{
		ID:         s.ID + ".natural",
		Name:       string(s.DamageType),
		Class:      WeaponMelee,
		Damage:     s.BiteDamage,
		Condition:  1,
		DamageType: s.DamageType,
	}
}

var fallbackSpecies = Species{
	ID:               "default",
	Name:             "animal",
	Mode:             ModeBehavior,
	MaxHP:            60,
	Strength:         1,
	Speed:            1,
	BaseThreat:       0.5,
	BaseAggression:   0.5,
	StartingBoldness: 0.5,
	RecoveryTurns:    2,
	BiteDamage:       10,
	DamageType:       DamageBite,
	Accuracy:         0.65,
}

// Bestiary is the species lookup table. Unknown species fall back to a
// generic animal so that a typo degrades instead of failing a run.
type Bestiary struct {
	byID     map[string]Species
	fallback Species
}

func NewBestiary(cfg *config.SpeciesConfig) *Bestiary {
	b := &Bestiary{byID: map[string]Species{}, fallback: fallbackSpecies}
	if cfg == nil {
		return b
	}
	for _, d := range cfg.Species {
		s := fallbackSpecies
		s.ID = d.ID
		s.Name = d.Name
		if s.Name == "" {
			s.Name = d.ID
		}
		if strings.EqualFold(d.Tactics, "pack") {
			s.Mode = ModeSquad
		}
		overlay(&s.MaxHP, d.MaxHP)
		overlay(&s.Strength, d.Strength)
		overlay(&s.Speed, d.Speed)
		overlay(&s.BaseThreat, d.BaseThreat)
		overlay(&s.BaseAggression, d.BaseAggression)
		overlay(&s.StartingBoldness, d.StartingBoldness)
		overlay(&s.RecoveryTurns, d.RecoveryTurns)
		overlay(&s.BiteDamage, d.BiteDamage)
		overlay(&s.Accuracy, d.Accuracy)
		if d.DamageType != "" {
			s.DamageType = DamageType(d.DamageType)
		}
		if d.ID == fallbackSpecies.ID {
			b.fallback = s
		}
		b.byID[d.ID] = s
	}
	return b
}

// Lookup returns the species, or the fallback with ok=false.
func (b *Bestiary) Lookup(id string) (Species, bool) {
	if b == nil {
		return fallbackSpecies, false
	}
	if s, ok := b.byID[id]; ok {
		return s, true
	}
	return b.fallback, false
}

func (b *Bestiary) IDs() []string {
	ids := make([]string, 0, len(b.byID))
	for id := range b.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type Armory struct {
	byID map[string]Weapon
}

func NewArmory(cfg *config.WeaponsConfig) *Armory {
	a := &Armory{byID: map[string]Weapon{}}
	if cfg == nil {
		return a
	}
	for _, d := range cfg.Weapons {
		w := Weapon{
			ID:         d.ID,
			Name:       d.Name,
			Class:      ParseWeaponClass(d.Class),
			Damage:     d.Damage,
			Condition:  d.Condition,
			DamageType: DamageType(d.DamageType),
		}
		if w.Name == "" {
			w.Name = d.ID
		}
		if w.Condition == 0 {
			w.Condition = 1
		}
		if w.DamageType == "" {
			w.DamageType = DamageBlunt
		}
		a.byID[d.ID] = w
	}
	return a
}

// Lookup returns a fresh copy so that wear on one actor's weapon never
// leaks into another's.
func (a *Armory) Lookup(id string) (*Weapon, bool) {
	if a == nil || id == "" {
		return nil, false
	}
	w, ok := a.byID[id]
	if !ok {
		return nil, false
	}
	return &w, true
}

// Fists is what an actor without a weapon fights with.
func Fists() *Weapon {
	return &Weapon{ID: "fists", Name: "fists", Class: WeaponUnarmed, Damage: 4, Condition: 1, DamageType: DamageBlunt}
}
