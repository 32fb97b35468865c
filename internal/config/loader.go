package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadAll reads species.yaml, weapons.yaml and the optional tuning.yaml from dir.
func LoadAll(dir string) (*SpeciesConfig, *WeaponsConfig, *TuningConfig, error) {
	var sc SpeciesConfig
	var wc WeaponsConfig
	var tc TuningConfig
	if err := loadYAML(filepath.Join(dir, "species.yaml"), &sc); err != nil {
		return nil, nil, nil, fmt.Errorf("species: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "weapons.yaml"), &wc); err != nil {
		return nil, nil, nil, fmt.Errorf("weapons: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "tuning.yaml"), &tc); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil, fmt.Errorf("tuning: %w", err)
	}
	return &sc, &wc, &tc, nil
}

// LoadScenario reads one scenario file and fills in defaults.
func LoadScenario(path string) (*ScenarioConfig, error) {
	var cfg ScenarioConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filepath.Base(path), err)
	}
	applyScenarioDefaults(&cfg)
	if cfg.ID == "" {
		cfg.ID = trimExt(filepath.Base(path))
	}
	return &cfg, nil
}

// LoadScenarios reads every *.yaml under dir, keyed by scenario ID.
func LoadScenarios(dir string) (map[string]*ScenarioConfig, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make(map[string]*ScenarioConfig, len(paths))
	for _, p := range paths {
		cfg, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if _, dup := out[cfg.ID]; dup {
			return nil, fmt.Errorf("scenario %q defined twice", cfg.ID)
		}
		out[cfg.ID] = cfg
	}
	return out, nil
}

func applyScenarioDefaults(cfg *ScenarioConfig) {
	if cfg.Player.Name == "" {
		cfg.Player.Name = "you"
	}
	if cfg.Player.MaxHP == 0 {
		cfg.Player.MaxHP = 100
	}
	if cfg.Player.Strength == 0 {
		cfg.Player.Strength = 1
	}
	if cfg.Player.Speed == 0 {
		cfg.Player.Speed = 1
	}
	for i := range cfg.Allies {
		a := &cfg.Allies[i]
		if a.MaxHP == 0 {
			a.MaxHP = 80
		}
		if a.Strength == 0 {
			a.Strength = 1
		}
		if a.Speed == 0 {
			a.Speed = 1
		}
	}
	for i := range cfg.Hostiles {
		fillHostile(&cfg.Hostiles[i])
	}
	for i := range cfg.Reinforcements {
		fillHostile(&cfg.Reinforcements[i].Hostile)
	}
}

func fillHostile(h *HostileDef) {
	if h.Count == 0 {
		h.Count = 1
	}
	if h.Distance == 0 {
		h.Distance = 18
	}
	if h.Spread == 0 {
		h.Spread = 25
	}
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
