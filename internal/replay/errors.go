package replay

import (
	"errors"
	"fmt"
)

var (
	// ErrDecodeFailure marks an event whose topics or data could not be decoded.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrEventNameMismatch marks a decoded event that does not match its dispatch key.
	ErrEventNameMismatch = errors.New("event name mismatch")
	// ErrMissingReference marks a transition whose target or referenced entity is absent.
	ErrMissingReference = errors.New("missing reference")
	// ErrInvalidEnumCode marks an enum code outside the known set.
	ErrInvalidEnumCode = errors.New("invalid enum code")
)

// FatalError aborts a replay pass. It records the input position of the offending event.
type FatalError struct {
	Position    int
	EventName   string
	BlockNumber uint64
	TxHash      string
	Err         error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("replay aborted at event %d (%s, block %d, tx %s): %v",
		e.Position, e.EventName, e.BlockNumber, e.TxHash, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func missing(kind string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrMissingReference, kind, key)
}
