package manifest

import "errors"

var (
	// ErrDuplicateFragmentID is returned when two fragments share an id.
	ErrDuplicateFragmentID = errors.New("manifest: duplicate fragment id")
	// ErrUnknownRecord is returned for Record implementations outside the
	// three known kinds.
	ErrUnknownRecord = errors.New("manifest: unknown record kind")
	// ErrSchemaValidation wraps JSON Schema violations of the serialized document.
	ErrSchemaValidation = errors.New("manifest: document does not match schema")
)
