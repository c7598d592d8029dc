package batch

import (
	"context"

	"github.com/samber/lo"
)

// Status is the lifecycle state of one batch item. Transitions only move
// forward: Pending -> Converting -> Done or Failed.
type Status int

const (
	StatusPending Status = iota
	StatusConverting
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConverting:
		return "converting"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Input is one unit of work handed to the orchestrator.
type Input struct {
	// Name is the original display name, used to derive the output name.
	Name string

	// Payload is the raw input content; owned by the caller and passed
	// through to the gateway untouched.
	Payload []byte
}

// Item is one input unit with its position and lifecycle state.
type Item struct {
	// Index is the position in the original ordered input. It is the item's
	// stable identity and is never reassigned.
	Index   int
	Name    string
	Payload []byte
	Status  Status
	// Err holds the gateway error for items that reached StatusFailed.
	Err error
}

// Result is the successful output for one item.
type Result struct {
	// OutputName is the filename the result gets inside the archive, unique
	// within the run.
	OutputName string

	// Data is the raw decoded output.
	Data []byte
}

// Params are the conversion parameters forwarded verbatim to the gateway
// for every item in the run.
type Params struct {
	Format  string
	Quality int
}

// Request is one conversion call to the gateway.
type Request struct {
	Filename string
	Payload  []byte
	Format   string
	Quality  int
}

// Gateway converts a single item. Implementations are expected to be remote
// calls; an error response fails only the item it belongs to.
type Gateway interface {
	Convert(ctx context.Context, req Request) (Result, error)
}

// Run is the aggregate state of one orchestrator invocation. It is mutated
// only by the orchestrator's sequential loop; once Run returns, the
// aggregate is read-only.
type Run struct {
	// Items in input order; processing order and archive entry order match.
	Items []Item

	// Results for items that reached StatusDone, in input order.
	Results []Result
}

// FailedCount reports how many items ended in StatusFailed.
func (r *Run) FailedCount() int {
	return lo.CountBy(r.Items, func(item Item) bool { return item.Status == StatusFailed })
}

// SucceededCount reports how many items ended in StatusDone.
func (r *Run) SucceededCount() int {
	return lo.CountBy(r.Items, func(item Item) bool { return item.Status == StatusDone })
}
