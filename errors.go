package titan

import "errors"

var (
	// ErrConfig marks a rejected configuration change. The target is left
	// exactly as it was.
	ErrConfig = errors.New("titan: invalid configuration")

	// ErrFatalSetup marks a failure that must stop the asset or shader build
	// that hit it, e.g. a missing file.
	ErrFatalSetup = errors.New("titan: fatal setup error")

	// ErrStaleHandle is returned when a transform handle outlived its node.
	ErrStaleHandle = errors.New("titan: stale handle")
)
