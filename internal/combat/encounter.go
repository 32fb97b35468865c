package combat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"wildfight/internal/util"
)

type Outcome int

const (
	Active Outcome = iota
	Victory
	Defeat
	Escaped
	EnemyFled
	Incapacitated
	Distracted
	Timeout
)

var outcomeNames = [...]string{
	"active", "victory", "defeat", "escaped", "enemy_fled", "incapacitated", "distracted", "timeout",
}

func (o Outcome) String() string {
	if o < Active || o > Timeout {
		return "unknown"
	}
	return outcomeNames[o]
}

func (o Outcome) Terminal() bool { return o != Active }

func ParseOutcome(s string) (Outcome, error) {
	for i, n := range outcomeNames {
		if strings.EqualFold(s, n) {
			return Outcome(i), nil
		}
	}
	return Active, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Options configures NewEncounter. Zero values pick defaults.
type Options struct {
	ID       string
	Scenario string
	Seed     int64
	Tuning   *Tuning
	Rand     Rand
	Damage   DamageProcessor
	Logger   *slog.Logger
	Record   bool // keep the structured event stream
}

type reinforcement struct {
	turn   int
	unit   *Unit
	meters float64
	angle  float64
}

// Encounter owns the grid and the rosters and is the only thing that
// mutates them.
type Encounter struct {
	ID       string
	Scenario string
	Seed     int64
	Grid     *Grid
	Tuning   Tuning
	Morale   MoraleModel
	Turn     int
	Outcome  Outcome

	units   []*Unit
	byID    map[UnitID]*Unit
	player  *Unit
	primary UnitID
	pending []reinforcement
	started bool

	rng    Rand
	damage DamageProcessor
	ai     AI
	narr   Narrator
	log    *slog.Logger
	record bool

	messages   []string
	transcript []string
	events     []Event

	// Side-effect hooks, called after the engine has applied its own
	// bookkeeping.
	OnAttack     func(res AttackResult)
	OnRemoved    func(u *Unit, reason RemovalReason)
	OnTransition func(u *Unit, step BehaviorStep)
}

func NewEncounter(opts Options) *Encounter {
	t := DefaultTuning()
	if opts.Tuning != nil {
		t = *opts.Tuning
	}
	rng := opts.Rand
	if rng == nil {
		rng = util.New(opts.Seed)
	}
	dmg := opts.Damage
	if dmg == nil {
		dmg = NewPoolDamage(rng)
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Encounter{
		ID:       id,
		Scenario: opts.Scenario,
		Seed:     opts.Seed,
		Grid:     NewGrid(t.GridSize, t.CellSize),
		Tuning:   t,
		Morale:   NewMoraleModel(t),
		byID:     map[UnitID]*Unit{},
		rng:      rng,
		damage:   dmg,
		log:      log.With("encounter", id),
		record:   opts.Record,
	}
}

// AddUnit places u at an absolute cell and links it into the rosters.
func (e *Encounter) AddUnit(u *Unit, cell Position) error {
	if err := e.checkNew(u); err != nil {
		return err
	}
	e.Grid.Place(u.ID, cell)
	e.admit(u)
	return nil
}

// Join spawns u at a polar offset from ref. It works mid-encounter.
func (e *Encounter) Join(u *Unit, ref UnitID, meters, angle float64) error {
	if err := e.checkNew(u); err != nil {
		return err
	}
	if _, err := e.Grid.PlaceAtOffset(u.ID, ref, meters, angle); err != nil {
		return fmt.Errorf("join %s near %s: %w", u.ID, ref, err)
	}
	e.admit(u)
	if e.started {
		e.logLine("roster", string(u.ID), "%s", e.narr.Arrival(u, e.PlayerDistance(u.ID)))
	}
	return nil
}

// ScheduleReinforcement queues u to join next to the player at the start
// of the given turn.
func (e *Encounter) ScheduleReinforcement(turn int, u *Unit, meters, angle float64) {
	e.pending = append(e.pending, reinforcement{turn: turn, unit: u, meters: meters, angle: angle})
}

func (e *Encounter) checkNew(u *Unit) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("%w: empty unit", ErrUnknownUnit)
	}
	if _, dup := e.byID[u.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, u.ID)
	}
	return nil
}

func (e *Encounter) admit(u *Unit) {
	e.units = append(e.units, u)
	e.byID[u.ID] = u
	if u.Kind == KindPlayer && e.player == nil {
		e.player = u
	}
	e.link(u)
	if e.started {
		u.Boldness = e.Morale.InitialBoldness(u, len(u.Allies))
		u.Threat = e.Morale.Threat(u)
	}
	e.log.Debug("unit joined", "unit", u.ID, "team", u.Team.String(), "mode", u.Mode.String())
}

func (e *Encounter) SetPlayer(id UnitID) error {
	u, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	e.player = u
	return nil
}

// SetPrimaryTarget names the hostile whose death wins the encounter.
func (e *Encounter) SetPrimaryTarget(id UnitID) error {
	if _, ok := e.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	e.primary = id
	return nil
}

func (e *Encounter) PrimaryTarget() UnitID { return e.primary }

func (e *Encounter) Player() *Unit { return e.player }

func (e *Encounter) Unit(id UnitID) (*Unit, bool) {
	u, ok := e.byID[id]
	return u, ok
}

// Units lists every unit that ever joined, in join order.
func (e *Encounter) Units() []*Unit {
	return append([]*Unit(nil), e.units...)
}

// Messages is the narration of the current turn.
func (e *Encounter) Messages() []string {
	return append([]string(nil), e.messages...)
}

func (e *Encounter) Transcript() []string {
	return append([]string(nil), e.transcript...)
}

func (e *Encounter) Events() []Event {
	return append([]Event(nil), e.events...)
}

func (e *Encounter) ZoneTo(a, b UnitID) Zone {
	return e.Grid.ZoneBetween(a, b)
}

// NearestEnemy is the closest active enemy of id, ties broken by ID.
func (e *Encounter) NearestEnemy(id UnitID) (*Unit, float64, bool) {
	u, ok := e.byID[id]
	if !ok || !u.Active() {
		return nil, Unreachable, false
	}
	return nearestEnemy(View{Grid: e.Grid, Self: u})
}

func (e *Encounter) ActiveEnemyCount(id UnitID) int {
	u, ok := e.byID[id]
	if !ok {
		return 0
	}
	return len(activeIDs(u.Enemies))
}

func (e *Encounter) ActiveCount(team Team) int {
	n := 0
	for _, u := range e.units {
		if u.Team == team && u.Active() {
			n++
		}
	}
	return n
}

// PlayerDistance projects the grid onto a single player-relative distance
// for consumers that think in one dimension.
func (e *Encounter) PlayerDistance(id UnitID) float64 {
	if e.player == nil {
		return Unreachable
	}
	return e.Grid.Distance(e.player.ID, id)
}

func (e *Encounter) start() {
	e.started = true
	for _, u := range e.units {
		u.Boldness = e.Morale.InitialBoldness(u, len(u.Allies))
		u.Threat = e.Morale.Threat(u)
		u.Aggression = e.Morale.Aggression(u)
	}
	e.log.Info("encounter started", "units", len(e.units), "primary", string(e.primary))
}

// RunRound plays one full round: the player's action, then every other
// living unit in roster order. Cancellation is only observed between units.
func (e *Encounter) RunRound(ctx context.Context, act Action) error {
	if e.Outcome.Terminal() {
		return ErrEncounterOver
	}
	if e.player == nil {
		return ErrNoPlayer
	}
	if !e.started {
		e.start()
	}
	if err := e.validate(act); err != nil {
		return err
	}
	e.Turn++
	e.messages = e.messages[:0]
	e.spawnReinforcements()

	p := e.player
	if p.Active() {
		p.clearDefenses()
		e.playerAct(act)
		p.LastAction = act.Kind
		e.endTurn(p)
	}
	for _, u := range e.turnOrder() {
		if e.Outcome.Terminal() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !u.Active() {
			continue
		}
		e.actUnit(u)
		e.endTurn(u)
	}
	return nil
}

// Run drives the encounter to a terminal outcome using policy for the
// player's choices.
func (e *Encounter) Run(ctx context.Context, policy PlayerPolicy) (Result, error) {
	for !e.Outcome.Terminal() {
		act := policy.Choose(e)
		err := e.RunRound(ctx, act)
		if errors.Is(err, ErrNoTarget) || errors.Is(err, ErrUnknownUnit) || errors.Is(err, ErrActionUnavailable) {
			e.log.Warn("policy chose an invalid action", "action", act.String(), "err", err)
			err = e.RunRound(ctx, Wait())
		}
		if err != nil {
			return e.Result(), err
		}
	}
	return e.Result(), nil
}

func (e *Encounter) turnOrder() []*Unit {
	out := make([]*Unit, 0, len(e.units))
	for _, u := range e.units {
		if u != e.player && u.Active() {
			out = append(out, u)
		}
	}
	return out
}

func (e *Encounter) spawnReinforcements() {
	if len(e.pending) == 0 || e.player == nil {
		return
	}
	rest := e.pending[:0]
	for _, r := range e.pending {
		if r.turn > e.Turn {
			rest = append(rest, r)
			continue
		}
		if err := e.Join(r.unit, e.player.ID, r.meters, r.angle); err != nil {
			e.log.Warn("reinforcement dropped", "unit", r.unit.ID, "err", err)
		}
	}
	e.pending = rest
}

func (e *Encounter) actUnit(u *Unit) {
	u.clearDefenses()
	e.updateAwareness(u)
	u.Aggression = e.Morale.Aggression(u)

	if u.Mode == ModeBehavior && u.Behavior != nil && u.Awareness == Engaged {
		if t, d, ok := e.NearestEnemy(u.ID); ok {
			step := u.Behavior.Update(u, e.behaviorInput(u, t, d), e.Tuning, e.rng)
			u.TryingToFlee = step.To.Fleeing()
			if step.Changed() {
				e.logLine("behavior", string(u.ID), "%s", e.narr.Transition(u, step))
				e.emit("Behavior", map[string]any{
					"unit": u.ID, "from": step.From.String(), "to": step.To.String(),
					"wanted": step.Wanted.String(), "cornered": step.Cornered, "boldness": step.Boldness,
				})
				if e.OnTransition != nil {
					e.OnTransition(u, step)
				}
			}
		}
	}

	d := e.ai.Decide(View{Grid: e.Grid, Self: u, Morale: e.Morale}, e.rng)
	e.log.Debug("decision", "unit", u.ID, "turn", e.Turn, "action", d.String(), "reason", d.Reason)
	e.dispatch(u, d)
	u.LastAction = d.Kind
}

// behaviorInput reads the target's last action as a cue.
func (e *Encounter) behaviorInput(u, target *Unit, dist float64) BehaviorInput {
	in := BehaviorInput{Zone: ZoneOf(dist), Vitality: u.Vitality()}
	switch target.LastAction {
	case ActRetreat, ActFlee, ActDodge, ActGiveGround, ActDisengage:
		in.WeaknessShown = true
	case ActHoldGround, ActBrace, ActBlock, ActThreaten, ActHold:
		in.HoldingGround = true
	case ActAttack, ActApproach, ActShove, ActThrow:
		in.Pressured = true
	}
	if target.Vitality() < 0.35 {
		in.WeaknessShown = true
	}
	return in
}

func (e *Encounter) updateAwareness(u *Unit) {
	if u.Awareness == Engaged {
		return
	}
	_, d, ok := e.NearestEnemy(u.ID)
	if !ok {
		return
	}
	prev := u.Awareness
	switch {
	case u.JustDamaged || d <= CloseCeiling:
		u.Awareness = Engaged
	case d <= MidCeiling:
		u.Awareness = Alert
	}
	if u.Awareness != prev {
		e.log.Debug("awareness", "unit", u.ID, "from", prev.String(), "to", u.Awareness.String())
		e.logLine("awareness", string(u.ID), "%s", e.narr.Awareness(u))
	}
}

func (e *Encounter) dispatch(u *Unit, d Decision) {
	var t *Unit
	if d.Kind.NeedsTarget() {
		t = e.byID[d.Target]
		if t == nil || !t.Active() {
			panic(fmt.Errorf("%w: %s by %s", ErrNoTarget, d.Kind, u.ID))
		}
	}
	budget := MoveBudget(u)
	switch d.Kind {
	case ActNone, ActHold, ActHoldGround:
	case ActMove:
		if d.StepTo != nil {
			e.move(u, func() float64 { return e.Grid.MoveToCell(u.ID, *d.StepTo, budget) })
		}
	case ActApproach:
		meters := budget
		// A threatening stalker closes to striking distance and no further.
		if u.Behavior != nil && u.Behavior.Current == Threatening {
			meters = min(budget, e.Grid.Distance(u.ID, t.ID)-CloseCeiling+e.Grid.CellSize())
		}
		e.move(u, func() float64 { return e.Grid.MoveToward(u.ID, t.ID, meters) })
	case ActCircle:
		e.move(u, func() float64 { return e.Grid.MoveLateral(u.ID, t.ID, d.Clockwise) })
	case ActRetreat:
		e.move(u, func() float64 { return e.Grid.MoveAway(u.ID, t.ID, budget) })
	case ActFlee:
		u.TryingToFlee = true
		e.move(u, func() float64 { return e.Grid.MoveAway(u.ID, t.ID, budget) })
	case ActAttack:
		e.attack(u, t, u.Weapon(), false)
	case ActThrow:
		e.throw(u, t)
	case ActShove:
		e.shove(u, t)
	case ActThreaten:
		e.intimidate(u, t)
	case ActDodge:
		u.Dodging = CanDefend(DefDodge, u)
	case ActBlock:
		u.Blocking = CanDefend(DefBlock, u)
	case ActBrace:
		u.Bracing = CanDefend(DefBrace, u)
	case ActGiveGround:
		u.GivingGround = CanDefend(DefGiveGround, u)
	case ActDisengage:
		e.disengage(u)
	case ActDistract:
		e.distract(u)
	default:
		panic(fmt.Errorf("combat: unhandled action %s", d.Kind))
	}
}

// move runs fn and credits the distance actually covered to the morale of
// every enemy that saw it happen.
func (e *Encounter) move(u *Unit, fn func() float64) float64 {
	before := map[UnitID]float64{}
	for _, x := range u.Enemies {
		before[x.ID] = e.Grid.Distance(u.ID, x.ID)
	}
	moved := fn()
	if moved <= 0 {
		return 0
	}
	threat := e.Morale.Threat(u)
	for _, x := range sortedActive(u.Enemies) {
		b, a := before[x.ID], e.Grid.Distance(u.ID, x.ID)
		if b == Unreachable || a == Unreachable || min(a, b) > FarCeiling {
			continue
		}
		switch {
		case b-a >= e.Grid.CellSize()/2:
			e.applyMorale(x, MoraleEvent{Kind: EnemyAdvanced, EnemyThreat: threat})
		case a-b >= e.Grid.CellSize()/2:
			e.applyMorale(x, MoraleEvent{Kind: EnemyRetreated})
		}
	}
	return moved
}

// shiftZone pushes u into the zone beyond its current one relative to from.
func (e *Encounter) shiftZone(u, from *Unit) float64 {
	d := e.Grid.Distance(u.ID, from.ID)
	z := ZoneOf(d)
	if z == ZoneFar || d == Unreachable {
		return 0
	}
	meters := z.Ceiling() - d + 1.5*e.Grid.CellSize()
	return e.move(u, func() float64 { return e.Grid.MoveAway(u.ID, from.ID, meters) })
}

func (e *Encounter) applyMorale(u *Unit, ev MoraleEvent) float64 {
	if !u.Active() {
		return 0
	}
	applied := u.AdjustBoldness(e.Morale.Delta(ev))
	if applied != 0 {
		e.log.Debug("morale", "unit", u.ID, "event", ev.Kind.String(), "delta", applied, "boldness", u.Boldness)
	}
	if ev.Kind != RoundAdvanced {
		e.emit("Morale", map[string]any{"unit": u.ID, "event": ev.Kind.String(), "delta": applied, "boldness": u.Boldness})
	}
	return applied
}

func (e *Encounter) endTurn(u *Unit) {
	u.JustDamaged = false
	e.applyMorale(u, MoraleEvent{Kind: RoundAdvanced})
	for _, x := range e.units {
		if x.Active() {
			x.Threat = e.Morale.Threat(x)
		}
	}
	e.sweepDead()
	if e.Outcome.Terminal() {
		return
	}
	e.checkTerminal(u)
}

func (e *Encounter) sweepDead() {
	for _, x := range e.units {
		if x.Active() && x.Actor != nil && !x.Actor.Alive() {
			e.remove(x, RemovedDied)
		}
	}
}

// checkTerminal evaluates the end conditions in priority order after u
// has acted.
func (e *Encounter) checkTerminal(u *Unit) {
	if !e.player.Alive {
		e.finish(Defeat)
		return
	}
	if p, ok := e.byID[e.primary]; ok && !p.Alive {
		e.finish(Victory)
		return
	}
	if e.ActiveCount(TeamHostile) == 0 {
		e.finish(Victory)
		return
	}
	if e.Turn >= e.Tuning.MaxTurns {
		e.finish(Timeout)
		return
	}
	if e.checkFlight() {
		return
	}
	e.checkMercy(u)
}

// checkFlight removes units that got far enough away while trying to flee.
func (e *Encounter) checkFlight() bool {
	for _, x := range e.turnOrder() {
		if !x.TryingToFlee {
			continue
		}
		var d float64
		if x.Team == e.player.Team {
			_, d, _ = e.NearestEnemy(x.ID)
		} else {
			d = e.PlayerDistance(x.ID)
		}
		if ZoneOf(d) != ZoneFar {
			continue
		}
		e.remove(x, RemovedFled)
		if x.Kind == KindAnimal && x.Team != e.player.Team &&
			(x.ID == e.primary || e.ActiveCount(TeamHostile) == 0) {
			e.finish(EnemyFled)
			return true
		}
	}
	return false
}

// IncapacitatedAt is the incapacitation level at which an animal may lose
// interest in a downed player.
const IncapacitatedAt = 0.6

// MercyChance is the chance an animal that has drawn blood walks away from
// p. It rises with incapacitation and falls while p can still use a weapon.
func MercyChance(t Tuning, p *Unit) float64 {
	inc := p.Incapacitation()
	if inc < IncapacitatedAt {
		return 0
	}
	chance := clamp(t.MercyBase+t.MercyPerIncapacitation*inc, 0, t.MercyMax)
	if p.Weapon().Armed() && p.Capacities().Manipulation >= 0.3 {
		chance *= t.MercyArmedFactor
	}
	return chance
}

func (e *Encounter) checkMercy(u *Unit) {
	if u.Kind != KindAnimal || u.Team == e.player.Team || !u.LandedHit || !u.Active() {
		return
	}
	chance := MercyChance(e.Tuning, e.player)
	if chance <= 0 {
		return
	}
	if util.Chance(e.rng, chance) {
		e.logLine("outcome", string(u.ID), "%s", e.narr.Mercy(u))
		e.finish(Incapacitated)
	}
}

func (e *Encounter) finish(o Outcome) {
	if e.Outcome.Terminal() {
		return
	}
	e.Outcome = o
	e.logLine("outcome", "", "%s", e.narr.Outcome(o))
	e.emit("Outcome", map[string]any{"outcome": o.String(), "turn": e.Turn})
	e.log.Info("encounter resolved", "outcome", o.String(), "turns", e.Turn)
}

func (e *Encounter) emit(typ string, payload map[string]any) {
	if !e.record {
		return
	}
	e.events = append(e.events, Event{Turn: e.Turn, Type: typ, Payload: payload})
}

// logLine adds a narration line for this turn.
func (e *Encounter) logLine(source, id, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if text == "" {
		return
	}
	e.messages = append(e.messages, text)
	e.transcript = append(e.transcript, fmt.Sprintf("[%d] %s", e.Turn, text))
	payload := map[string]any{"text": text}
	if source != "" {
		payload["source"] = source
	}
	if id != "" {
		payload["id"] = id
	}
	e.emit("LogLine", payload)
}
