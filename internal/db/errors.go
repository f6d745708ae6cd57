package db

// Op constants map to MongoDB command names for error context.
const (
	OpPing              = "ping"
	OpAggregate         = "aggregate"
	OpListSearchIndexes = "$listSearchIndexes"
	OpCreateSearchIndex = "createSearchIndexes"
	OpDisconnect        = "disconnect"
)

// Error wraps an underlying error with the operation and collection for diagnostics.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	if e.Collection == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Collection + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
