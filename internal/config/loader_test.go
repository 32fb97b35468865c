package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "species.yaml", `
species:
  - id: wolf
    tactics: pack
    max_hp: 45
    bite_damage: 9
`)
	writeFile(t, dir, "weapons.yaml", `
weapons:
  - id: spear
    class: reach
    damage: 15
`)

	sc, wc, tc, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(sc.Species) != 1 || sc.Species[0].Tactics != "pack" || sc.Species[0].MaxHP != 45 {
		t.Fatalf("species: %+v", sc.Species)
	}
	if len(wc.Weapons) != 1 || wc.Weapons[0].Class != "reach" {
		t.Fatalf("weapons: %+v", wc.Weapons)
	}
	if tc == nil || tc.MaxTurns != 0 {
		t.Fatalf("missing tuning.yaml should leave zero overrides, got %+v", tc)
	}

	writeFile(t, dir, "tuning.yaml", "max_turns: 40\nmorale:\n  ally_killed: -1.5\n")
	_, _, tc, err = LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll with tuning: %v", err)
	}
	if tc.MaxTurns != 40 || tc.Morale.AllyKilled != -1.5 {
		t.Fatalf("tuning: %+v", tc)
	}
}

func TestLoadAllMissingSpecies(t *testing.T) {
	if _, _, _, err := LoadAll(t.TempDir()); err == nil {
		t.Fatalf("expected an error without species.yaml")
	}
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ambush.yaml", `
note: cougar in the rocks
player:
  weapon: knife
hostiles:
  - species: cougar
    distance: 12
reinforcements:
  - turn: 3
    hostile:
      species: wolf
`)
	writeFile(t, dir, "pack.yaml", `
id: wolves
hostiles:
  - species: wolf
    count: 3
`)
	writeFile(t, dir, "readme.txt", "not a scenario")

	all, err := LoadScenarios(dir)
	if err != nil {
		t.Fatalf("LoadScenarios: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d scenarios", len(all))
	}
	amb, ok := all["ambush"]
	if !ok {
		t.Fatalf("scenario id should default to the file name")
	}
	if amb.Player.Name != "you" || amb.Player.MaxHP != 100 || amb.Player.Weapon != "knife" {
		t.Fatalf("player defaults: %+v", amb.Player)
	}
	if h := amb.Hostiles[0]; h.Count != 1 || h.Distance != 12 || h.Spread != 25 {
		t.Fatalf("hostile defaults: %+v", h)
	}
	if r := amb.Reinforcements[0].Hostile; r.Count != 1 || r.Distance != 18 {
		t.Fatalf("reinforcement defaults: %+v", r)
	}
	if w := all["wolves"]; w == nil || w.Hostiles[0].Count != 3 {
		t.Fatalf("explicit id not honoured")
	}
}

func TestLoadScenariosRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "id: same\n")
	writeFile(t, dir, "b.yaml", "id: same\n")
	if _, err := LoadScenarios(dir); err == nil {
		t.Fatalf("expected a duplicate id error")
	}
}

func TestShippedAssetsLoad(t *testing.T) {
	dir := filepath.Join("..", "..", "assets")
	if _, _, _, err := LoadAll(dir); err != nil {
		t.Fatalf("LoadAll(assets): %v", err)
	}
	all, err := LoadScenarios(filepath.Join(dir, "scenarios"))
	if err != nil {
		t.Fatalf("LoadScenarios(assets): %v", err)
	}
	if _, ok := all["lone_wolf"]; !ok {
		t.Fatalf("default scenario lone_wolf missing")
	}
}
