package combat

import "math"

type DamageType string

const (
	DamageBlunt  DamageType = "blunt"
	DamageSharp  DamageType = "sharp"
	DamagePierce DamageType = "pierce"
	DamageBite   DamageType = "bite"
	DamageClaw   DamageType = "claw"
)

// Body is opaque to the engine. Only the DamageProcessor that built it
// knows what is inside.
type Body interface{}

type Damage struct {
	Amount float64
	Source string
	Type   DamageType
	Part   string // optional targeted part
}

type DamageResult struct {
	Total           float64 `json:"total"`
	HitPart         string  `json:"hit_part"`
	PartHealthAfter float64 `json:"part_health_after"`
	OrganHit        bool    `json:"organ_hit"`
	TissueHit       bool    `json:"tissue_hit"`
}

// DamageProcessor applies damage to a body. The engine never looks past
// the returned result.
type DamageProcessor interface {
	Process(body Body, d Damage) DamageResult
}

// BodyPart is one region of a HealthPool.
type BodyPart struct {
	Name      string
	Weight    float64 // share of random hits
	Share     float64 // share of total health
	Health    float64 // 0..1
	OrganOdds float64
	Capacity  string // moving, manipulation or consciousness
	Vital     bool
}

// HealthPool is a small stand-in for the external body model: a hit-point
// pool split into weighted parts.
type HealthPool struct {
	MaxHP float64
	HP    float64
	Parts []BodyPart
}

func NewHealthPool(maxHP float64) *HealthPool {
	if maxHP <= 0 {
		maxHP = 100
	}
	return &HealthPool{
		MaxHP: maxHP,
		HP:    maxHP,
		Parts: []BodyPart{
			{Name: "head", Weight: 0.10, Share: 0.15, Health: 1, OrganOdds: 0.30, Capacity: "consciousness", Vital: true},
			{Name: "torso", Weight: 0.40, Share: 0.40, Health: 1, OrganOdds: 0.25, Vital: true},
			{Name: "arms", Weight: 0.25, Share: 0.20, Health: 1, OrganOdds: 0, Capacity: "manipulation"},
			{Name: "legs", Weight: 0.25, Share: 0.25, Health: 1, OrganOdds: 0, Capacity: "moving"},
		},
	}
}

func (hp *HealthPool) Vitality() float64 {
	if hp == nil || hp.MaxHP <= 0 {
		return 0
	}
	return clamp01(hp.HP / hp.MaxHP)
}

// Capacity returns the health of the weakest part that feeds name, scaled
// by overall vitality so that a badly hurt body slows down everywhere.
func (hp *HealthPool) Capacity(name string) float64 {
	if hp == nil {
		return 0
	}
	c := 1.0
	for _, p := range hp.Parts {
		if p.Capacity == name && p.Health < c {
			c = p.Health
		}
	}
	v := hp.Vitality()
	return clamp01(c * (0.5 + 0.5*v))
}

func (hp *HealthPool) part(name string) *BodyPart {
	for i := range hp.Parts {
		if hp.Parts[i].Name == name {
			return &hp.Parts[i]
		}
	}
	return nil
}

// PoolDamage processes damage against HealthPool bodies.
type PoolDamage struct {
	Rng Rand
}

func NewPoolDamage(rng Rand) *PoolDamage { return &PoolDamage{Rng: rng} }

func (pd *PoolDamage) pick(hp *HealthPool) *BodyPart {
	total := 0.0
	for _, p := range hp.Parts {
		total += p.Weight
	}
	roll := pd.Rng.Float64() * total
	for i := range hp.Parts {
		roll -= hp.Parts[i].Weight
		if roll < 0 {
			return &hp.Parts[i]
		}
	}
	return &hp.Parts[len(hp.Parts)-1]
}

func (pd *PoolDamage) Process(body Body, d Damage) DamageResult {
	hp, ok := body.(*HealthPool)
	if !ok || hp == nil || d.Amount <= 0 {
		return DamageResult{}
	}
	var part *BodyPart
	if d.Part != "" {
		part = hp.part(d.Part)
	}
	if part == nil {
		part = pd.pick(hp)
	}
	amount := math.Min(d.Amount, hp.HP)
	organ := part.OrganOdds > 0 && pd.Rng.Float64() < part.OrganOdds
	if organ {
		amount = math.Min(d.Amount*1.25, hp.HP)
	}
	hp.HP -= amount
	if part.Share > 0 {
		part.Health = clamp01(part.Health - amount/(hp.MaxHP*part.Share))
	}
	if part.Vital && part.Health <= 0 {
		hp.HP = 0
	}
	return DamageResult{
		Total:           amount,
		HitPart:         part.Name,
		PartHealthAfter: part.Health,
		OrganHit:        organ,
		TissueHit:       amount > 0,
	}
}
