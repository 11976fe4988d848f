package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks every error that aborts a run before analysis starts.
	ErrConfiguration = errors.New("configuration error")

	ErrEmptyInput  = fmt.Errorf("%w: empty input", ErrConfiguration)
	ErrGeometry    = fmt.Errorf("%w: non-uniform frame geometry", ErrConfiguration)
	ErrInvalidBand = fmt.Errorf("%w: invalid color band", ErrConfiguration)
	ErrSequence    = fmt.Errorf("%w: frame indices are not 0..n-1", ErrConfiguration)

	// ErrAggregation means results were lost or duplicated while restoring frame order.
	ErrAggregation = errors.New("aggregation error")
)

// FrameError is a failure confined to a single frame.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
