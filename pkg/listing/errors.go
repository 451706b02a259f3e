package listing

import "errors"

// Listing failures are reported through these sentinels so callers can
// map them to HTTP statuses with errors.Is. Per-entry stat failures
// inside a successful scan are absorbed by the scanner and never
// surface here.
var (
	ErrInvalidPath      = errors.New("invalid path")
	ErrPathOutOfRoot    = errors.New("path outside document root")
	ErrNotFound         = errors.New("path does not exist")
	ErrNotADirectory    = errors.New("path is not a directory")
	ErrPermissionDenied = errors.New("permission denied")
)
