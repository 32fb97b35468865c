package combat

import (
	"fmt"
	"math"

	"wildfight/internal/config"
)

// Library is the static data an encounter is built from.
type Library struct {
	Bestiary *Bestiary
	Armory   *Armory
	Tuning   Tuning
}

// NewLibrary wraps loaded config. Any argument may be nil.
func NewLibrary(sc *config.SpeciesConfig, wc *config.WeaponsConfig, tc *config.TuningConfig) Library {
	return Library{
		Bestiary: NewBestiary(sc),
		Armory:   NewArmory(wc),
		Tuning:   NewTuning(tc),
	}
}

const PlayerID UnitID = "player"

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// Build lays out a scenario on a fresh encounter: the player in the middle
// of the grid (or at its configured cell), allies behind, hostiles fanned
// out at their configured range.
func Build(scn *config.ScenarioConfig, lib Library, opts Options) (*Encounter, error) {
	t := lib.Tuning
	if opts.Tuning != nil {
		t = *opts.Tuning
	}
	if scn.GridSize > 0 {
		t.GridSize = scn.GridSize
	}
	if scn.CellSize > 0 {
		t.CellSize = scn.CellSize
	}
	if scn.MaxTurns > 0 {
		t.MaxTurns = scn.MaxTurns
	}
	opts.Tuning = &t
	if opts.Scenario == "" {
		opts.Scenario = scn.ID
	}
	e := NewEncounter(opts)

	player, err := lib.combatant(PlayerID, KindPlayer, TeamPlayer, scn.Player)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	cell := Position{X: scn.Player.Pos.X, Y: scn.Player.Pos.Y}
	if cell == (Position{}) {
		mid := e.Grid.Size() / 2
		cell = Position{X: mid, Y: mid}
	}
	if err := e.AddUnit(player, cell); err != nil {
		return nil, err
	}

	for i, def := range scn.Allies {
		id := UnitID(fmt.Sprintf("ally-%d", i+1))
		ally, err := lib.combatant(id, KindNPC, TeamPlayer, def)
		if err != nil {
			return nil, fmt.Errorf("ally %d: %w", i+1, err)
		}
		ally.Relationships[PlayerID] = def.Relationship
		player.Relationships[id] = def.Relationship
		if def.Pos != (config.Vec2Def{}) {
			err = e.AddUnit(ally, Position{X: def.Pos.X, Y: def.Pos.Y})
		} else {
			err = e.Join(ally, PlayerID, 2*e.Grid.CellSize(), math.Pi+0.6*float64(i))
		}
		if err != nil {
			return nil, err
		}
	}

	var hostiles []*Unit
	counts := map[string]int{}
	for _, def := range scn.Hostiles {
		for i := 0; i < def.Count; i++ {
			u := lib.animal(def.Species, counts)
			angle := degToRad(def.Angle + def.Spread*float64(i))
			if err := e.Join(u, PlayerID, def.Distance, angle); err != nil {
				return nil, err
			}
			hostiles = append(hostiles, u)
		}
	}
	if len(hostiles) > 0 {
		idx := scn.PrimaryTarget
		if idx < 0 || idx >= len(hostiles) {
			idx = 0
		}
		if err := e.SetPrimaryTarget(hostiles[idx].ID); err != nil {
			return nil, err
		}
	}

	for _, r := range scn.Reinforcements {
		for i := 0; i < r.Hostile.Count; i++ {
			u := lib.animal(r.Hostile.Species, counts)
			e.ScheduleReinforcement(r.Turn, u, r.Hostile.Distance, degToRad(r.Hostile.Angle+r.Hostile.Spread*float64(i)))
		}
	}
	return e, nil
}

func (lib Library) combatant(id UnitID, kind UnitKind, team Team, def config.CombatantDef) (*Unit, error) {
	var w *Weapon
	if def.Weapon != "" {
		var ok bool
		if w, ok = lib.Armory.Lookup(def.Weapon); !ok {
			return nil, fmt.Errorf("unknown weapon %q", def.Weapon)
		}
	}
	c := NewCreature(def.Name, def.MaxHP, def.Strength, def.Speed, w)
	for _, item := range def.Items {
		c.GiveItem(item, 1)
	}
	u := NewUnit(id, kind, team, c)
	if def.Boldness > 0 {
		u.StartingBoldness = clamp01(def.Boldness)
		u.Boldness = u.StartingBoldness
	}
	if def.Aggression > 0 {
		u.BaseAggression = def.Aggression
	}
	return u, nil
}

// animal builds the next numbered unit of a species, e.g. wolf-2.
func (lib Library) animal(species string, counts map[string]int) *Unit {
	sp, _ := lib.Bestiary.Lookup(species)
	counts[sp.ID]++
	id := UnitID(fmt.Sprintf("%s-%d", sp.ID, counts[sp.ID]))
	c := NewCreature(sp.Name, sp.MaxHP, sp.Strength, sp.Speed, sp.NaturalWeapon())
	return NewAnimal(id, TeamHostile, sp, c)
}
