package migrate

import (
	"errors"
	"fmt"

	"github.com/schematic-io/schematic/schema"
)

// Options carries the operator controls for one planner/applier run. It is
// built once at process start from flags and threaded explicitly; nothing in
// this package reads the environment.
type Options struct {
	PlanOnly       bool
	ApplyRequested bool
	AckToken       string
	AllowRemote    bool
	AllowNonEmpty  bool
	ForceRecreate  bool
}

// Gate states. A run moves UNPLANNED -> PLANNED when the plan is printed, and
// only reaches APPLIED after every acknowledgment condition holds.
type State int

const (
	StateUnplanned State = iota
	StatePlanned
	StateAckPending
	StateApplied
)

var (
	ErrAckRequired         = errors.New("apply requires an acknowledgment token (--ack)")
	ErrAckMismatch         = errors.New("acknowledgment token does not match the current meta-model fingerprint")
	ErrRemoteUnconfirmed   = errors.New("target database is not local; pass --allow-remote to confirm")
	ErrNonEmptyUnconfirmed = errors.New("target database already contains tables; pass --allow-non-empty to confirm")
	ErrNotConverged        = errors.New("schema differences remain after apply")
)

// Gate tracks the safety-gate state machine for one run.
type Gate struct {
	Fingerprint string
	State       State
}

// NewGate binds a gate to the meta-model under review.
func NewGate(fingerprint string) *Gate {
	return &Gate{Fingerprint: fingerprint, State: StateUnplanned}
}

// MarkPlanned records that the plan (and fingerprint) have been shown to the
// operator. Planning performs no writes.
func (g *Gate) MarkPlanned() {
	if g.State == StateUnplanned {
		g.State = StatePlanned
	}
}

// Authorize checks every apply precondition at once: the acknowledgment token
// must match the reviewed model's fingerprint prefix, a non-local database
// needs an explicit override, and so does a database that already contained
// tables before this run. Any failure is fatal to the run; no statement is
// attempted.
func (g *Gate) Authorize(opts Options, local, hadTables bool) error {
	g.State = StateAckPending

	want := schema.AckPrefix(g.Fingerprint)
	if opts.AckToken == "" {
		return ErrAckRequired
	}
	if opts.AckToken != want {
		return fmt.Errorf("%w: got %q", ErrAckMismatch, opts.AckToken)
	}
	if !local && !opts.AllowRemote {
		return ErrRemoteUnconfirmed
	}
	if hadTables && !opts.AllowNonEmpty {
		return ErrNonEmptyUnconfirmed
	}

	g.State = StateApplied
	return nil
}

// IsRefusal reports whether err is a safety-gate refusal, as opposed to an
// ordinary failure.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrAckRequired) ||
		errors.Is(err, ErrAckMismatch) ||
		errors.Is(err, ErrRemoteUnconfirmed) ||
		errors.Is(err, ErrNonEmptyUnconfirmed)
}
