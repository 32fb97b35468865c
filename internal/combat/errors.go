package combat

import "errors"

var (
	// ErrGridNotInitialized is raised (as a panic) when grid operations run
	// before the encounter built its grid.
	ErrGridNotInitialized = errors.New("combat: grid not initialized")
	ErrUnitNotPlaced      = errors.New("combat: unit not placed on grid")
	ErrNoTarget           = errors.New("combat: action requires a target")
	ErrUnknownUnit        = errors.New("combat: unknown unit")
	ErrDuplicateUnit      = errors.New("combat: duplicate unit id")
	ErrEncounterOver      = errors.New("combat: encounter already resolved")
	ErrNoPlayer           = errors.New("combat: encounter has no player")
	ErrActionUnavailable  = errors.New("combat: action unavailable")
	// ErrStaleReference marks a broken ally/enemy back-reference. It is fatal.
	ErrStaleReference = errors.New("combat: stale roster reference")
)
