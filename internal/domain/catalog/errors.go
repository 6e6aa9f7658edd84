package catalog

import "errors"

var (
	// ErrEntryNotFound is returned when no catalog entry matches the identifier
	ErrEntryNotFound = errors.New("catalog entry not found")

	// ErrNoExternalID is returned when neither identifier of an entry has the platform's format
	ErrNoExternalID = errors.New("catalog entry has no externally addressable script identifier")
)
