package workflow

import "errors"

var (
	// ErrAllFieldsRequired is the single aggregated validation failure for
	// outage creation. Missing fields never produce a partial insert.
	ErrAllFieldsRequired = errors.New("all fields are required")

	// ErrAdminNotLoggedIn rejects outage creation without an attributed
	// admin identity.
	ErrAdminNotLoggedIn = errors.New("admin not logged in")

	// ErrAlreadyResolved rejects a second resolution of the same record.
	// Resolution is deliberately not idempotent: a duplicate PowerRestored
	// notification would go out to residents otherwise.
	ErrAlreadyResolved = errors.New("already resolved")

	// ErrNotFound reports that the target outage or report does not exist.
	ErrNotFound = errors.New("record not found")
)
