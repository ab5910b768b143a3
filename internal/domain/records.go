package domain

import "context"

// Record is one document in the remote record store. Values are whatever the
// owning surface wrote; readers pull fields out defensively with GetString.
type Record map[string]any

// GetString returns the named field if it is a string, or "" otherwise.
func (r Record) GetString(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// GetBool returns the named field if it is a bool, or false otherwise.
func (r Record) GetBool(field string) bool {
	if v, ok := r[field].(bool); ok {
		return v
	}
	return false
}

// RecordStore is the remote document store collaborator. Implementations
// classify failures: a missing document is ENOTFOUND, a rejected write due
// to auth/session issues is EFORBIDDEN, and an unreachable store is
// EUNAVAILABLE.
type RecordStore interface {
	// Fetch retrieves one document by collection and key.
	Fetch(ctx context.Context, collection, key string) (Record, error)

	// Write creates or replaces the document at collection/key.
	Write(ctx context.Context, collection, key string, fields Record) error

	// Create inserts a new document with a generated key and returns it.
	Create(ctx context.Context, collection string, fields Record) (string, error)

	// List returns all documents in a collection, each including its "id".
	List(ctx context.Context, collection string) ([]Record, error)
}
