package domain

import "errors"

var (
	// ErrTeamIDCoercion signals a team identifier that cannot be converted to
	// the collection's declared storage type. A team filter failing open would
	// leak other teams' documents, so this fails the whole request.
	ErrTeamIDCoercion = errors.New("team id coercion failed")
	// ErrInvalidLimit signals a result limit outside the accepted range.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
	// ErrUnknownCollection signals a backend collection with no catalog entry.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrIndexNotResolved signals a collection whose search index metadata
	// was never resolved at startup.
	ErrIndexNotResolved = errors.New("search index not resolved")
	// ErrInvalidCatalog signals a search catalog that violates a startup
	// invariant (non-bijective category mapping, bad field type, ...).
	// Always fatal: the service must not start with a broken catalog.
	ErrInvalidCatalog = errors.New("invalid search catalog")
)
