package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// collection exposes a named slice of the shared `documents` table as a
// document store: find / get / insert / save / delete, with JSONB containment
// filters. Repositories map domain structs to and from the stored docs.
type collection struct {
	db   *sqlx.DB
	name string
}

func newCollection(db *sqlx.DB, name string) collection {
	return collection{db: db, name: name}
}

func (c collection) newID() string {
	return uuid.New().String()
}

// get unmarshals the doc with the given id into dest.
// Returns sql.ErrNoRows when absent; callers map it to their not-found error.
func (c collection) get(ctx context.Context, id string, dest interface{}) error {
	var data []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`, c.name, id,
	).Scan(&data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// find returns the raw docs matching the JSONB containment filter
// (all docs when filter is nil), ordered by creation time then id.
func (c collection) find(ctx context.Context, filter map[string]interface{}) ([]json.RawMessage, error) {
	query := `SELECT data FROM documents WHERE collection = $1`
	args := []interface{}{c.name}
	if len(filter) > 0 {
		fltr, err := json.Marshal(filter)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling filter")
		}
		query += ` AND data @> $2`
		args = append(args, fltr)
	}
	query += ` ORDER BY data->>'created_at', id`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		docs = append(docs, json.RawMessage(data))
	}
	return docs, rows.Err()
}

// findOne returns the single doc matching the filter, or sql.ErrNoRows.
func (c collection) findOne(ctx context.Context, filter map[string]interface{}, dest interface{}) error {
	fltr, err := json.Marshal(filter)
	if err != nil {
		return errors.Wrap(err, "marshaling filter")
	}
	var data []byte
	err = c.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND data @> $2 LIMIT 1`, c.name, fltr,
	).Scan(&data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c collection) insert(ctx context.Context, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshaling doc")
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`, c.name, id, data)
	return err
}

// save replaces the doc with the given id. Returns sql.ErrNoRows when absent.
func (c collection) save(ctx context.Context, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshaling doc")
	}
	res, err := c.db.ExecContext(ctx,
		`UPDATE documents SET data = $3 WHERE collection = $1 AND id = $2`, c.name, id, data)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (c collection) deleteMany(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		`DELETE FROM documents WHERE collection = ? AND id IN (?)`, c.name, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = c.db.ExecContext(ctx, c.db.Rebind(query), args...)
	return err
}

// exists reports whether any doc matches the filter, excluding the given ids.
func (c collection) exists(ctx context.Context, filter map[string]interface{}, exclIDs ...string) (bool, error) {
	fltr, err := json.Marshal(filter)
	if err != nil {
		return false, errors.Wrap(err, "marshaling filter")
	}

	query := `SELECT EXISTS (SELECT 1 FROM documents WHERE collection = ? AND data @> ?`
	args := []interface{}{c.name, fltr}
	if len(exclIDs) > 0 {
		query += ` AND id NOT IN (?)`
		var inErr error
		query, args, inErr = sqlx.In(query+`)`, c.name, fltr, exclIDs)
		if inErr != nil {
			return false, errors.Wrap(inErr, "building exists query")
		}
	} else {
		query += `)`
	}

	var exists bool
	err = c.db.QueryRowContext(ctx, c.db.Rebind(query), args...).Scan(&exists)
	return exists, err
}
