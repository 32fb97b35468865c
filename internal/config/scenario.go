package config

type ScenarioConfig struct {
	ID             string             `yaml:"id"`
	Note           string             `yaml:"note"`
	GridSize       int                `yaml:"grid_size"`
	CellSize       float64            `yaml:"cell_size"`
	MaxTurns       int                `yaml:"max_turns"`
	Player         CombatantDef       `yaml:"player"`
	Allies         []CombatantDef     `yaml:"allies"`
	Hostiles       []HostileDef       `yaml:"hostiles"`
	PrimaryTarget  int                `yaml:"primary_target"` // index into the expanded hostile list
	Reinforcements []ReinforcementDef `yaml:"reinforcements"`
}

type CombatantDef struct {
	Name         string   `yaml:"name"`
	MaxHP        float64  `yaml:"max_hp"`
	Strength     float64  `yaml:"strength"`
	Speed        float64  `yaml:"speed"`
	Weapon       string   `yaml:"weapon"`
	Items        []string `yaml:"items"`
	Boldness     float64  `yaml:"boldness"`
	Aggression   float64  `yaml:"aggression"`
	Relationship float64  `yaml:"relationship"` // towards the player, 0..1
	Pos          Vec2Def  `yaml:"pos"`
}

type HostileDef struct {
	Species  string  `yaml:"species"`
	Count    int     `yaml:"count"`
	Distance float64 `yaml:"distance"` // meters from the player
	Angle    float64 `yaml:"angle"`    // degrees
	Spread   float64 `yaml:"spread"`   // degrees between pack members
}

type ReinforcementDef struct {
	Turn    int        `yaml:"turn"`
	Hostile HostileDef `yaml:"hostile"`
}

type Vec2Def struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}
