package ink

import "errors"

// Common errors returned by the annotation engine.
var (
	// ErrNoSuchPage is returned when a page index is out of range.
	ErrNoSuchPage = errors.New("ink: no such page")

	// ErrPageUnavailable is returned when operations are attempted on a page
	// whose drawing surface could not be built or rebuilt.
	ErrPageUnavailable = errors.New("ink: page unavailable")

	// ErrInvalidDimensions is returned when a width or height is invalid.
	ErrInvalidDimensions = errors.New("ink: invalid dimensions")

	// ErrMalformedPayload is returned when an annotation payload fails to
	// decode. The workspace is left blank and remains usable.
	ErrMalformedPayload = errors.New("ink: malformed annotation payload")
)
