package combat

import "encoding/json"

type UnitSummary struct {
	ID          UnitID  `json:"id"`
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Team        string  `json:"team"`
	Species     string  `json:"species,omitempty"`
	Alive       bool    `json:"alive"`
	Fled        bool    `json:"fled"`
	Vitality    float64 `json:"vitality"`
	Boldness    float64 `json:"boldness"`
	Behavior    string  `json:"behavior,omitempty"`
	DamageDealt float64 `json:"damage_dealt"`
	DamageTaken float64 `json:"damage_taken"`
}

// Result is the record of a finished (or abandoned) encounter.
type Result struct {
	ID         string        `json:"id"`
	Scenario   string        `json:"scenario,omitempty"`
	Seed       int64         `json:"seed"`
	Outcome    Outcome       `json:"outcome"`
	Turns      int           `json:"turns"`
	Units      []UnitSummary `json:"units"`
	Transcript []string      `json:"transcript,omitempty"`
	Events     []Event       `json:"events,omitempty"`
}

// Won reports an outcome the player walks away from on their own terms.
func (r Result) Won() bool {
	switch r.Outcome {
	case Victory, EnemyFled, Escaped, Distracted:
		return true
	default:
		return false
	}
}

func (e *Encounter) Result() Result {
	res := Result{
		ID:         e.ID,
		Scenario:   e.Scenario,
		Seed:       e.Seed,
		Outcome:    e.Outcome,
		Turns:      e.Turn,
		Transcript: e.Transcript(),
	}
	if e.record {
		res.Events = e.Events()
	}
	for _, u := range e.units {
		s := UnitSummary{
			ID:          u.ID,
			Name:        u.Name(),
			Kind:        u.Kind.String(),
			Team:        u.Team.String(),
			Alive:       u.Alive,
			Fled:        u.Fled,
			Vitality:    u.Vitality(),
			Boldness:    u.Boldness,
			DamageDealt: u.DamageDealt,
			DamageTaken: u.DamageTaken,
		}
		if u.Species != nil {
			s.Species = u.Species.ID
		}
		if u.Behavior != nil {
			s.Behavior = u.Behavior.Current.String()
		}
		res.Units = append(res.Units, s)
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
