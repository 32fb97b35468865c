// Package api serves the simulator over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"wildfight/internal/combat"
	"wildfight/internal/config"
	"wildfight/internal/persistence"
)

// ResultStore is the slice of persistence.DB the handlers use.
type ResultStore interface {
	SaveResult(res combat.Result) error
	GetResult(id string) (combat.Result, error)
	OutcomeCounts(scenario string) (map[string]int, error)
	RecentEncounters(limit int) ([]persistence.Summary, error)
}

const (
	defaultMaxRuns = 1000
	defaultRecent  = 20
	maxRecent      = 200
)

type Handler struct {
	Scenarios map[string]*config.ScenarioConfig
	Library   combat.Library
	Store     ResultStore // optional
	Logger    *slog.Logger
	MaxRuns   int
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api")
	api.GET("/scenarios", h.scenarios)
	api.POST("/simulate", h.simulate)
	api.GET("/encounters", h.recent)
	api.GET("/encounters/:id", h.encounter)
	api.GET("/outcomes", h.outcomes)
}

type scenarioInfo struct {
	ID       string `json:"id"`
	Note     string `json:"note,omitempty"`
	Hostiles int    `json:"hostiles"`
	Allies   int    `json:"allies"`
}

type simulateRequest struct {
	Scenario string `json:"scenario"`
	Seed     int64  `json:"seed"`
	Runs     int    `json:"runs"`
	Record   bool   `json:"record"`
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h Handler) scenarios(_ context.Context, ctx *app.RequestContext) {
	out := make([]scenarioInfo, 0, len(h.Scenarios))
	for id, s := range h.Scenarios {
		n := 0
		for _, hd := range s.Hostiles {
			n += hd.Count
		}
		out = append(out, scenarioInfo{ID: id, Note: strings.TrimSpace(s.Note), Hostiles: n, Allies: len(s.Allies)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	ctx.JSON(consts.StatusOK, map[string]any{"scenarios": out})
}

func (h Handler) simulate(c context.Context, ctx *app.RequestContext) {
	var body simulateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	scn, ok := h.Scenarios[body.Scenario]
	if !ok {
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_scenario", "unknown scenario: "+body.Scenario)
		return
	}
	maxRuns := h.MaxRuns
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}
	if body.Runs > maxRuns {
		writeErrorBody(ctx, consts.StatusBadRequest, "too_many_runs", "runs exceeds the server limit")
		return
	}

	build := func(seed int64) (*combat.Encounter, error) {
		return combat.Build(scn, h.Library, combat.Options{Seed: seed, Record: body.Record, Logger: h.logger()})
	}

	if body.Runs <= 1 {
		e, err := build(body.Seed)
		if err != nil {
			writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_scenario", err.Error())
			return
		}
		res, err := e.Run(c, combat.AutoPlayer{})
		if err != nil {
			writeError(ctx, err)
			return
		}
		h.save(res)
		ctx.JSON(consts.StatusOK, res)
		return
	}

	summary := combat.RunBatch(c, body.Runs, 0, body.Seed, build, combat.AutoPlayer{})
	for _, r := range summary.Results {
		h.save(r)
	}
	ctx.JSON(consts.StatusOK, summary)
}

func (h Handler) save(res combat.Result) {
	if h.Store == nil {
		return
	}
	if err := h.Store.SaveResult(res); err != nil {
		h.logger().Error("save encounter", "id", res.ID, "err", err)
	}
}

func (h Handler) encounter(_ context.Context, ctx *app.RequestContext) {
	if h.Store == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "no result store configured")
		return
	}
	res, err := h.Store.GetResult(ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, res)
}

func (h Handler) recent(_ context.Context, ctx *app.RequestContext) {
	if h.Store == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "no result store configured")
		return
	}
	limit := defaultRecent
	if raw := string(ctx.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecent)
	}
	list, err := h.Store.RecentEncounters(limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if list == nil {
		list = []persistence.Summary{}
	}
	ctx.JSON(consts.StatusOK, map[string]any{"encounters": list})
}

func (h Handler) outcomes(_ context.Context, ctx *app.RequestContext) {
	if h.Store == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "no result store configured")
		return
	}
	scenario := string(ctx.Query("scenario"))
	counts, err := h.Store.OutcomeCounts(scenario)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"scenario": scenario, "outcomes": counts})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
