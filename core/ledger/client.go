package ledger

import (
	"context"
	"fmt"

	"github.com/parksense/parksense/core/model"
)

// Client submits a confirmed state change to the external transactional ledger.
// The ledger is opaque: a nil error means the external system accepted the
// update, anything else is a transient delivery failure.
type Client interface {
	Submit(ctx context.Context, ev model.ParkingEvent) error
}

// SubmissionError carries the diagnostic output of a failed ledger invocation.
type SubmissionError struct {
	SlotID string
	Output string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("ledger update for %s failed: %v: %s", e.SlotID, e.Err, e.Output)
	}
	return fmt.Sprintf("ledger update for %s failed: %v", e.SlotID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
