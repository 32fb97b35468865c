package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/dustin/go-humanize"

	"wildfight/internal/api"
	"wildfight/internal/combat"
	"wildfight/internal/config"
	"wildfight/internal/persistence"
)

func main() {
	var cfgDir, scenarioDir, scenarioID, out, dbPath, addr, level string
	var seed int64
	var n, workers int
	var saveLog bool
	flag.StringVar(&cfgDir, "config", "assets", "config dir")
	flag.StringVar(&scenarioDir, "scenarios", "", "scenario dir (default <config>/scenarios)")
	flag.StringVar(&scenarioID, "scenario", "lone_wolf", "scenario id")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.StringVar(&dbPath, "db", "", "sqlite file to store results in")
	flag.StringVar(&addr, "serve", "", "serve the HTTP API on this address instead of simulating")
	flag.StringVar(&level, "log-level", "info", "debug, info, warn or error")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", 8, "batch workers")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)}))
	slog.SetDefault(logger)

	sc, wc, tc, err := config.LoadAll(cfgDir)
	if err != nil {
		fatal("load config", err)
	}
	lib := combat.NewLibrary(sc, wc, tc)
	if scenarioDir == "" {
		scenarioDir = filepath.Join(cfgDir, "scenarios")
	}
	scenarios, err := config.LoadScenarios(scenarioDir)
	if err != nil {
		fatal("load scenarios", err)
	}

	var store *persistence.DB
	if dbPath != "" {
		if store, err = persistence.Open(dbPath); err != nil {
			fatal("open store", err)
		}
		defer store.Close()
	}

	if addr != "" {
		serve(addr, scenarios, lib, store, logger)
		return
	}

	scn, ok := scenarios[scenarioID]
	if !ok {
		fatal("scenario", fmt.Errorf("unknown scenario %q (have %s)", scenarioID, strings.Join(ids(scenarios), ", ")))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if n <= 1 {
		e, err := combat.Build(scn, lib, combat.Options{Seed: seed, Record: saveLog, Logger: logger})
		if err != nil {
			fatal("build encounter", err)
		}
		res, err := e.Run(ctx, combat.AutoPlayer{})
		if err != nil {
			fatal("run encounter", err)
		}
		if store != nil {
			if err := store.SaveResult(res); err != nil {
				fatal("save result", err)
			}
		}
		if err := os.WriteFile(out, combat.MarshalPretty(res), 0644); err != nil {
			fatal("write result", err)
		}
		fmt.Printf("Single encounter finished. Outcome=%s, turns=%d -> %s\n", res.Outcome, res.Turns, out)
		return
	}

	build := func(s int64) (*combat.Encounter, error) {
		return combat.Build(scn, lib, combat.Options{Seed: s, Logger: logger})
	}
	summary := combat.RunBatch(ctx, n, workers, seed, build, combat.AutoPlayer{})
	if store != nil {
		if err := store.SaveResults(summary.Results); err != nil {
			fatal("save results", err)
		}
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		fatal("write summary", err)
	}
	printSummary(summary)
	fmt.Printf("Batch %s done -> %s\n", humanize.Comma(int64(n)), filepath.Base(out))
}

func serve(addr string, scenarios map[string]*config.ScenarioConfig, lib combat.Library, store *persistence.DB, logger *slog.Logger) {
	h := api.Handler{Scenarios: scenarios, Library: lib, Logger: logger}
	if store != nil {
		h.Store = store
	}
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)
	logger.Info("simsvc listening", "addr", addr, "scenarios", len(scenarios))
	s.Spin()
}

func printSummary(s combat.BatchSummary) {
	fmt.Printf("%s runs, seed %d, win rate %s%%, avg %s turns\n",
		humanize.Comma(int64(s.Runs)), s.Seed,
		humanize.FtoaWithDigits(s.WinRate*100, 1), humanize.FtoaWithDigits(s.AvgTurns, 1))
	keys := make([]string, 0, len(s.Outcomes))
	for k := range s.Outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-14s %s\n", k, humanize.Comma(int64(s.Outcomes[k])))
	}
	if s.Errors > 0 {
		fmt.Printf("  %s runs failed: %s\n", humanize.Comma(int64(s.Errors)), strings.Join(s.FirstErrors, "; "))
	}
}

func ids(m map[string]*config.ScenarioConfig) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func fatal(what string, err error) {
	slog.Error(what, "err", err)
	os.Exit(1)
}
