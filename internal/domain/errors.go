package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// ErrUnknownProduct — an order references a product the scenario does not
	// define. The order is skipped; the rest of the solve continues.
	ErrUnknownProduct = errors.New("order references unknown product")

	// ErrNoCapableMachine — a recipe operation is unsupported by every
	// machine. Fatal for expansion: a schedule omitting mandatory work is
	// meaningless, so the whole solve aborts.
	ErrNoCapableMachine = errors.New("no machine supports operation")

	// ErrRunNotFound — a solve-history lookup missed.
	ErrRunNotFound = errors.New("run not found")
)
