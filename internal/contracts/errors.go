package contracts

import (
	"errors"
	"fmt"
)

// ErrInvalidTicker rejects empty/malformed tickers before any fetch is
// dispatched. Handlers map it to 400.
var ErrInvalidTicker = errors.New("invalid ticker")

// Unavailable is the recoverable outcome of a single source fetch. It is
// recorded as absence inside the report and never aborts sibling fetches.
type Unavailable struct {
	Source string
	Reason string // network_error, rate_limited, malformed_response, restricted, timeout
	Err    error
}

func (u *Unavailable) Error() string {
	if u.Err != nil {
		return fmt.Sprintf("source %s unavailable (%s): %v", u.Source, u.Reason, u.Err)
	}
	return fmt.Sprintf("source %s unavailable (%s)", u.Source, u.Reason)
}

func (u *Unavailable) Unwrap() error {
	return u.Err
}

// NewUnavailable tags a source failure with its reason.
func NewUnavailable(source, reason string, err error) *Unavailable {
	return &Unavailable{Source: source, Reason: reason, Err: err}
}

// Fault marks an assembler-level defect (e.g. inconsistent weight
// configuration). This is the only error class surfaced as a server error.
type Fault struct {
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pipeline fault: %v", f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// NewFault wraps err as a pipeline fault.
func NewFault(err error) *Fault {
	return &Fault{Err: err}
}

// IsFault reports whether err is a pipeline fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
