// Package records implements the remote document store collaborator.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements domain.RecordStore over a documents table with
// JSONB payloads, keyed by (collection, key).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a record store over an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Fetch retrieves one document by collection and key.
func (s *PostgresStore) Fetch(ctx context.Context, collection, key string) (domain.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND key = $2`,
		collection, key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("records.fetch", collection, key)
		}
		return nil, classify(err, "records.fetch")
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, domain.Internal(err, "records.fetch", "failed to decode document")
	}
	rec["id"] = key

	return rec, nil
}

// Write creates or replaces the document at collection/key.
func (s *PostgresStore) Write(ctx context.Context, collection, key string, fields domain.Record) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return domain.Internal(err, "records.write", "failed to encode document")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, key, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (collection, key)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, key, data,
	)
	if err != nil {
		return classify(err, "records.write")
	}

	return nil
}

// Create inserts a new document with a generated key and returns it.
func (s *PostgresStore) Create(ctx context.Context, collection string, fields domain.Record) (string, error) {
	key := uuid.NewString()

	stored := maps.Clone(fields)
	stored["id"] = key

	data, err := json.Marshal(stored)
	if err != nil {
		return "", domain.Internal(err, "records.create", "failed to encode document")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, key, data) VALUES ($1, $2, $3)`,
		collection, key, data,
	)
	if err != nil {
		return "", classify(err, "records.create")
	}

	return key, nil
}

// List returns all documents in a collection.
func (s *PostgresStore) List(ctx context.Context, collection string) ([]domain.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, data FROM documents WHERE collection = $1 ORDER BY created_at`,
		collection,
	)
	if err != nil {
		return nil, classify(err, "records.list")
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, domain.Internal(err, "records.list", "failed to scan document")
		}

		var rec domain.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, domain.Internal(err, "records.list", "failed to decode document")
		}
		rec["id"] = key
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "records.list")
	}

	return out, nil
}

// classify maps driver errors onto domain codes: auth/privilege failures are
// EFORBIDDEN (the caller should re-authenticate), everything else from the
// wire is EUNAVAILABLE (retryable).
func classify(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501", "28000", "28P01":
			return domain.WrapError(err, domain.EFORBIDDEN, op, "Write rejected, please sign in again")
		}
	}

	return domain.Unavailable(err, op, fmt.Sprintf("record store unavailable: %s", op))
}
