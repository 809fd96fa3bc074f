package glide

import "errors"

var (
	// ErrInvalidValue reports a NaN or infinite numeric input.
	ErrInvalidValue = errors.New("glide: invalid numeric value")
	// ErrInvalidConfig reports behavior parameters outside their valid range.
	ErrInvalidConfig = errors.New("glide: invalid configuration")
	// ErrMissingValue reports a property that cannot be resolved for a sprite.
	ErrMissingValue = errors.New("glide: missing property value")
	// ErrUnknownPreset reports a timeline script referencing an undefined preset.
	ErrUnknownPreset = errors.New("glide: unknown preset")
	// ErrUnknownEasing reports an easing name gween does not provide.
	ErrUnknownEasing = errors.New("glide: unknown easing")
)
