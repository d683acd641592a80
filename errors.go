package bandstrip

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an archive holds no image entries.
var ErrEmptyInput = errors.New("no images found in the archive")

// DecodeError reports an archive entry that could not be read or decoded.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DimensionLimitError reports a strip geometry that cannot be produced
// within the raster height ceiling.
type DimensionLimitError struct {
	Width, Height int
	Reason        string
}

func (e *DimensionLimitError) Error() string {
	return fmt.Sprintf("strip %dx%d: %s", e.Width, e.Height, e.Reason)
}

// EncodingError reports a band that failed to resample or encode.
// Part is the 1-based band index, or 0 for the full composite.
type EncodingError struct {
	Part int
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Part == 0 {
		return fmt.Sprintf("encode composite: %v", e.Err)
	}
	return fmt.Sprintf("encode part%d: %v", e.Part, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
