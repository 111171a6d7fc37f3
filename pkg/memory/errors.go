package memory

import "errors"

var (
	// ErrStorage indicates the persisted store could not be written. Reads
	// never surface it; corrupt or missing data degrades to defaults.
	ErrStorage = errors.New("memory storage unavailable")
)
