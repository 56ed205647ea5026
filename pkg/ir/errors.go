package ir

import (
	"github.com/cockroachdb/errors"
)

// ErrGeneration is the single error kind reported when a target cannot
// render its sources. Generation is all-or-nothing.
var ErrGeneration = errors.New("generation failed")

// GenerationErrorf returns an error that matches ErrGeneration.
func GenerationErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrGeneration)
}

// WrapGeneration marks err as a generation failure.
func WrapGeneration(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrGeneration)
}
