package combat

import "strings"

type WeaponClass int

const (
	WeaponUnarmed WeaponClass = iota
	WeaponMelee
	WeaponReach
	WeaponThrown
)

func (c WeaponClass) String() string {
	switch c {
	case WeaponUnarmed:
		return "unarmed"
	case WeaponMelee:
		return "melee"
	case WeaponReach:
		return "reach"
	case WeaponThrown:
		return "thrown"
	default:
		return "unknown"
	}
}

func ParseWeaponClass(s string) WeaponClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "melee":
		return WeaponMelee
	case "reach", "spear":
		return WeaponReach
	case "thrown", "throwing":
		return WeaponThrown
	default:
		return WeaponUnarmed
	}
}

type Weapon struct {
	ID         string
	Name       string
	Class      WeaponClass
	Damage     float64
	Condition  float64 // 0..1
	DamageType DamageType
}

// Armed reports whether w is a real weapon rather than bare hands.
func (w *Weapon) Armed() bool {
	return w != nil && w.Class != WeaponUnarmed
}

type Capacities struct {
	Moving        float64
	Manipulation  float64
	Consciousness float64
}

// Actor is everything the engine needs from a participant. Players, NPCs
// and animals all satisfy it.
type Actor interface {
	Name() string
	Vitality() float64
	Strength() float64
	Speed() float64
	Alive() bool
	Weapon() *Weapon
	Capacities() Capacities
	Energy() float64
	SpendEnergy(amount float64)
	HasItem(tag string) bool
	TakeItem(tag string) bool
	Body() Body
}

// Creature is the stock Actor backed by a HealthPool.
type Creature struct {
	name     string
	strength float64
	speed    float64
	energy   float64
	weapon   *Weapon
	items    map[string]int
	body     *HealthPool
}

func NewCreature(name string, maxHP, strength, speed float64, weapon *Weapon) *Creature {
	return &Creature{
		name:     name,
		strength: strength,
		speed:    speed,
		energy:   1,
		weapon:   weapon,
		items:    map[string]int{},
		body:     NewHealthPool(maxHP),
	}
}

func (c *Creature) Name() string      { return c.name }
func (c *Creature) Vitality() float64 { return c.body.Vitality() }
func (c *Creature) Strength() float64 { return c.strength }
func (c *Creature) Speed() float64    { return c.speed }
func (c *Creature) Alive() bool       { return c.body.HP > 0 }
func (c *Creature) Weapon() *Weapon   { return c.weapon }
func (c *Creature) Energy() float64   { return c.energy }
func (c *Creature) Body() Body        { return c.body }
func (c *Creature) Pool() *HealthPool { return c.body }

func (c *Creature) Capacities() Capacities {
	if !c.Alive() {
		return Capacities{}
	}
	return Capacities{
		Moving:        c.body.Capacity("moving"),
		Manipulation:  c.body.Capacity("manipulation"),
		Consciousness: c.body.Capacity("consciousness"),
	}
}

func (c *Creature) SpendEnergy(amount float64) {
	c.energy = clamp01(c.energy - amount)
}

func (c *Creature) SetEnergy(v float64) { c.energy = clamp01(v) }

func (c *Creature) GiveItem(tag string, n int) {
	if n > 0 {
		c.items[tag] += n
	}
}

func (c *Creature) HasItem(tag string) bool { return c.items[tag] > 0 }

func (c *Creature) TakeItem(tag string) bool {
	if c.items[tag] <= 0 {
		return false
	}
	c.items[tag]--
	return true
}
