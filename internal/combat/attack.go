package combat

import "wildfight/internal/util"

// AttackResult is the structured outcome of one strike or throw. Narration
// and hooks read it; the engine never does.
type AttackResult struct {
	Turn        int             `json:"turn"`
	Attacker    UnitID          `json:"attacker"`
	Defender    UnitID          `json:"defender"`
	Weapon      string          `json:"weapon"`
	Zone        string          `json:"zone"`
	Ranged      bool            `json:"ranged,omitempty"`
	Charged     bool            `json:"charged,omitempty"`
	Defenses    []DefenseResult `json:"defenses,omitempty"`
	HitChance   float64         `json:"hit_chance"`
	Hit         bool            `json:"hit"`
	Critical    bool            `json:"critical,omitempty"`
	Damage      DamageResult    `json:"damage"`
	Counter     DamageResult    `json:"counter"`
	Interrupted string          `json:"interrupted,omitempty"` // dodged, blocked, missed, out_of_reach
	Killed      bool            `json:"killed,omitempty"`
}

const (
	CritMultiplier  = 1.5
	ThrownAccuracy  = 0.8
	RockDamage      = 5.0
	DefaultCritRate = 0.05
)

// AttackDamage is the raw damage of a blow before any defense.
func AttackDamage(att *Unit, w *Weapon, crit bool) float64 {
	strength := 1.0
	if att.Actor != nil {
		strength = att.Actor.Strength()
	}
	dmg := w.Damage * (0.6 + 0.4*strength) * (0.75 + 0.25*w.Condition)
	if crit {
		dmg *= CritMultiplier
	}
	return dmg
}

// HitChance blends the attacker's accuracy with how exposed the defender's
// current behavior leaves it.
func HitChance(att, def *Unit, ranged bool) float64 {
	acc := att.Accuracy
	if ranged {
		acc *= ThrownAccuracy
	}
	mult := 1.0
	if def.Behavior != nil {
		mult = def.Behavior.Current.HitMultiplier()
	}
	return clamp(acc*mult*(0.75+0.25*att.Vitality()), 0.05, 0.95)
}

func critChance(def *Unit) float64 {
	if def.Behavior != nil {
		return def.Behavior.Current.CritChance()
	}
	return DefaultCritRate
}

// attack runs the resolution chain: close in if needed, then dodge, block,
// brace and give-ground checks, the hit roll, damage and hooks. Any
// short-circuit deals no damage.
func (e *Encounter) attack(att, def *Unit, w *Weapon, ranged bool) AttackResult {
	res := AttackResult{Turn: e.Turn, Attacker: att.ID, Defender: def.ID, Weapon: w.Name, Ranged: ranged}
	defer func() { att.Charging = false }()

	dist := e.Grid.Distance(att.ID, def.ID)
	if !ranged && !InReach(w.Class, ZoneOf(dist)) {
		if moved := e.move(att, func() float64 { return e.Grid.MoveToward(att.ID, def.ID, MoveBudget(att)) }); moved > 0 {
			att.Charging = true
		}
		dist = e.Grid.Distance(att.ID, def.ID)
	}
	z := ZoneOf(dist)
	res.Zone = z.String()
	res.Charged = att.Charging
	if (ranged && !ThrowEffective(z)) || (!ranged && !InReach(w.Class, z)) {
		res.Interrupted = "out_of_reach"
		return e.finishAttack(att, def, res)
	}

	if def.Dodging {
		def.Dodging = false
		r := ResolveDefense(DefDodge, def, att, e.rng)
		res.Defenses = append(res.Defenses, r)
		if r.Success {
			e.shiftZone(def, att)
			res.Interrupted = "dodged"
			return e.finishAttack(att, def, res)
		}
	}
	if def.Blocking {
		def.Blocking = false
		r := ResolveDefense(DefBlock, def, att, e.rng)
		res.Defenses = append(res.Defenses, r)
		if r.Success {
			res.Interrupted = "blocked"
			return e.finishAttack(att, def, res)
		}
	}

	reduction := 0.0
	braced := false
	if def.Bracing && !ranged {
		def.Bracing = false
		r := ResolveBrace(def, att)
		res.Defenses = append(res.Defenses, r)
		if r.Success {
			braced = true
			reduction = r.DamageReduction
			res.Counter = e.damage.Process(att.Actor.Body(), Damage{
				Amount: r.CounterDamage,
				Source: def.Name(),
				Type:   def.Weapon().DamageType,
			})
			e.recordDamage(def, att, res.Counter.Total)
		}
	}
	gaveGround := false
	if def.GivingGround {
		def.GivingGround = false
		r := ResolveDefense(DefGiveGround, def, att, e.rng)
		res.Defenses = append(res.Defenses, r)
		if r.Success {
			reduction = max(reduction, r.DamageReduction)
			gaveGround = true
		}
	}

	if !att.Actor.Alive() {
		res.Interrupted = "impaled"
		return e.finishAttack(att, def, res)
	}

	// A charger that runs onto a set brace cannot pull up short.
	res.HitChance = HitChance(att, def, ranged)
	if braced {
		res.HitChance = 1
	}
	if !braced && !util.Chance(e.rng, res.HitChance) {
		res.Interrupted = "missed"
		if gaveGround {
			e.shiftZone(def, att)
		}
		return e.finishAttack(att, def, res)
	}
	res.Hit = true
	res.Critical = util.Chance(e.rng, critChance(def))
	res.Damage = e.damage.Process(def.Actor.Body(), Damage{
		Amount: AttackDamage(att, w, res.Critical) * (1 - reduction),
		Source: att.Name(),
		Type:   w.DamageType,
	})
	e.recordDamage(att, def, res.Damage.Total)
	res.Killed = !def.Actor.Alive()
	if gaveGround && !res.Killed {
		e.shiftZone(def, att)
	}
	return e.finishAttack(att, def, res)
}

func (e *Encounter) finishAttack(att, def *Unit, res AttackResult) AttackResult {
	e.logLine("attack", string(att.ID), "%s", e.narr.Attack(att, def, res))
	e.emit("Attack", map[string]any{
		"attacker": att.ID, "defender": def.ID, "hit": res.Hit, "critical": res.Critical,
		"damage": res.Damage.Total, "part": res.Damage.HitPart, "interrupted": res.Interrupted,
	})
	e.log.Debug("attack", "attacker", att.ID, "defender", def.ID, "hit", res.Hit,
		"damage", res.Damage.Total, "interrupted", res.Interrupted)
	if e.OnAttack != nil {
		e.OnAttack(res)
	}
	return res
}

// recordDamage does the bookkeeping for damage that landed: tallies,
// awareness, and the morale of everyone who cares.
func (e *Encounter) recordDamage(src, dst *Unit, total float64) {
	if total <= 0 {
		return
	}
	src.LandedHit = true
	src.DamageDealt += total
	dst.DamageTaken += total
	dst.JustDamaged = true
	dst.Awareness = Engaged
	e.applyMorale(dst, MoraleEvent{Kind: TookDamage})
	e.applyMorale(src, MoraleEvent{Kind: DealtDamage})
	for _, a := range sortedActive(dst.Allies) {
		e.applyMorale(a, MoraleEvent{Kind: AllyDamaged, Cohesion: e.Morale.Cohesion(a, dst)})
	}
}
