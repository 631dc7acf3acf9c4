// Package store provides a SQLite-backed rule store. It implements the
// same Source interface as the file loaders so deployments can keep rule
// definitions in a database instead of checked-in files.
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS rules (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	value      TEXT NOT NULL,
	percentage INTEGER NOT NULL DEFAULT 0,
	category   TEXT NOT NULL DEFAULT '',
	priority   INTEGER NOT NULL DEFAULT 0,
	scope      TEXT NOT NULL DEFAULT '',
	condition  TEXT,
	expression TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore loads and saves rules in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and if needed creates) the rule database
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Store("opening rule database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Store("initializing rule schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load implements rules.Source
func (s *SQLiteStore) Load(ctx context.Context) ([]*rule.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, value, percentage, category, priority, scope, condition, expression
		FROM rules ORDER BY priority, id`)
	if err != nil {
		return nil, errors.Store("querying rules", err)
	}
	defer rows.Close()

	var out []*rule.Rule
	for rows.Next() {
		var (
			r          rule.Rule
			value      string
			percentage int
			category   string
			condition  sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &value, &percentage, &category,
			&r.Priority, &r.Scope, &condition, &r.Expression); err != nil {
			return nil, errors.Store("scanning rule row", err)
		}

		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, errors.Rulef("rule %s: invalid stored value %q", r.ID, value)
		}
		r.Value = d
		r.Percentage = percentage != 0
		r.Category = rule.Category(category)

		if condition.Valid && condition.String != "" {
			var c rule.Condition
			if err := json.Unmarshal([]byte(condition.String), &c); err != nil {
				return nil, errors.Wrapf(errors.TypeRule, err, "rule %s: invalid stored condition", r.ID)
			}
			r.Condition = &c
		}

		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Save upserts rule definitions in one transaction
func (s *SQLiteStore) Save(ctx context.Context, defs []*rule.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Store("beginning transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rules (id, name, value, percentage, category, priority, scope, condition, expression)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, value = excluded.value,
			percentage = excluded.percentage, category = excluded.category,
			priority = excluded.priority, scope = excluded.scope,
			condition = excluded.condition, expression = excluded.expression`)
	if err != nil {
		return errors.Store("preparing upsert", err)
	}
	defer stmt.Close()

	for _, r := range defs {
		if err := r.Validate(); err != nil {
			return err
		}

		var condition any
		if r.Condition != nil {
			data, err := json.Marshal(r.Condition)
			if err != nil {
				return errors.Wrapf(errors.TypeRule, err, "rule %s: encoding condition", r.ID)
			}
			condition = string(data)
		}

		percentage := 0
		if r.Percentage {
			percentage = 1
		}

		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Value.String(), percentage,
			string(r.Category), r.Priority, r.Scope, condition, r.Expression); err != nil {
			return errors.Store("upserting rule "+r.ID, err)
		}
	}

	return tx.Commit()
}
