package config

type WeaponsConfig struct {
	Weapons []WeaponDef `yaml:"weapons"`
}

type WeaponDef struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Class      string  `yaml:"class"` // unarmed | melee | reach | thrown
	Damage     float64 `yaml:"damage"`
	Condition  float64 `yaml:"condition"`
	DamageType string  `yaml:"damage_type"`
	Note       string  `yaml:"note"`
}
