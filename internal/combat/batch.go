package combat

import (
	"context"
	"sync"

	"wildfight/internal/util"
)

// BuildFunc makes a fresh encounter for one seeded run.
type BuildFunc func(seed int64) (*Encounter, error)

type BatchSummary struct {
	Runs        int            `json:"runs"`
	Seed        int64          `json:"seed"`
	Outcomes    map[string]int `json:"outcomes"`
	WinRate     float64        `json:"win_rate"`
	AvgTurns    float64        `json:"avg_turns"`
	AvgDealt    float64        `json:"avg_damage_dealt"`
	AvgTaken    float64        `json:"avg_damage_taken"`
	Errors      int            `json:"errors"`
	FirstErrors []string       `json:"first_errors,omitempty"`
	Results     []Result       `json:"-"`
}

// RunBatch plays n independent encounters on a pool of workers. Run i uses
// seed util.Derive(seed, i), so the summary does not depend on scheduling.
func RunBatch(ctx context.Context, n, workers int, seed int64, build BuildFunc, policy PlayerPolicy) BatchSummary {
	if workers <= 0 {
		workers = 8
	}
	results := make([]Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				e, err := build(util.Derive(seed, i))
				if err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = e.Run(ctx, policy)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return summarize(seed, results, errs)
}

func summarize(seed int64, results []Result, errs []error) BatchSummary {
	s := BatchSummary{Runs: len(results), Seed: seed, Outcomes: map[string]int{}}
	won, played := 0, 0
	var turns, dealt, taken float64
	for i, r := range results {
		if errs[i] != nil {
			s.Errors++
			if len(s.FirstErrors) < 5 {
				s.FirstErrors = append(s.FirstErrors, errs[i].Error())
			}
			continue
		}
		played++
		s.Results = append(s.Results, r)
		s.Outcomes[r.Outcome.String()]++
		if r.Won() {
			won++
		}
		turns += float64(r.Turns)
		for _, u := range r.Units {
			if u.ID == PlayerID {
				dealt += u.DamageDealt
				taken += u.DamageTaken
			}
		}
	}
	if played > 0 {
		f := float64(played)
		s.WinRate = float64(won) / f
		s.AvgTurns = turns / f
		s.AvgDealt = dealt / f
		s.AvgTaken = taken / f
	}
	return s
}
