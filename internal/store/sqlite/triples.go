// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package sqlite

import (
	"database/sql"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/odahub/renku-aqs/internal/rdfgraph"
	aqserr "github.com/odahub/renku-aqs/pkg/errors"
)

// Compile-time interface check.
var _ rdfgraph.Store = (*TripleStore)(nil)

// TripleStore implements rdfgraph.Store backed by SQLite, one row per triple
// with SPO/POS/OSP indexes. Terms are stored in their rdfgraph key encoding.
type TripleStore struct {
	db     *sql.DB
	logger *slog.Logger
	err    error
}

// NewTripleStore opens (or creates) a SQLite database at dbPath and
// initialises an empty triples table. An empty path keeps the database in
// memory.
func NewTripleStore(dbPath string) (*TripleStore, error) {
	dsn := ":memory:"
	if dbPath != "" {
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, aqserr.Errorf(aqserr.CodeStoreDatabaseFailure, "opening sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, aqserr.Errorf(aqserr.CodeStoreDatabaseFailure, "pinging sqlite db: %w", err)
	}

	if err := migrateTriples(db); err != nil {
		_ = db.Close()
		return nil, aqserr.Errorf(aqserr.CodeStoreDatabaseFailure, "migrating triples table: %w", err)
	}

	return &TripleStore{db: db, logger: slog.Default()}, nil
}

func migrateTriples(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS triples (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	subject   TEXT NOT NULL,
	predicate TEXT NOT NULL,
	object    TEXT NOT NULL,
	UNIQUE(subject, predicate, object)
);

CREATE INDEX IF NOT EXISTS idx_spo ON triples(subject, predicate, object);
CREATE INDEX IF NOT EXISTS idx_pos ON triples(predicate, object, subject);
CREATE INDEX IF NOT EXISTS idx_osp ON triples(object, subject, predicate);

DELETE FROM triples;
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *TripleStore) Close() error {
	return s.db.Close()
}

// Err returns the first database failure seen by a mutating or query call.
func (s *TripleStore) Err() error {
	return s.err
}

func (s *TripleStore) fail(op string, err error) {
	if s.err == nil {
		s.err = aqserr.Errorf(aqserr.CodeStoreDatabaseFailure, "%s: %w", op, err)
	}
	s.logger.Error("triple store failure", "op", op, "error", err)
}

func (s *TripleStore) Add(t rdfgraph.Triple) {
	if s.err != nil {
		return
	}
	const q = `INSERT OR IGNORE INTO triples (subject, predicate, object) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(q, t.S.Key(), t.P.Key(), t.O.Key()); err != nil {
		s.fail("inserting triple", err)
	}
}

func (s *TripleStore) Remove(subj, pred, obj rdfgraph.Term) int {
	if s.err != nil {
		return 0
	}
	where, args := pattern(subj, pred, obj)
	res, err := s.db.Exec(`DELETE FROM triples`+where, args...)
	if err != nil {
		s.fail("deleting triples", err)
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.fail("counting deleted triples", err)
		return 0
	}
	return int(n)
}

func (s *TripleStore) Match(subj, pred, obj rdfgraph.Term) []rdfgraph.Triple {
	if s.err != nil {
		return nil
	}
	where, args := pattern(subj, pred, obj)
	rows, err := s.db.Query(`SELECT subject, predicate, object FROM triples`+where+` ORDER BY seq`, args...)
	if err != nil {
		s.fail("querying triples", err)
		return nil
	}
	defer rows.Close()

	var out []rdfgraph.Triple
	for rows.Next() {
		var sk, pk, ok string
		if err := rows.Scan(&sk, &pk, &ok); err != nil {
			s.fail("scanning triple", err)
			return nil
		}
		t, err := decodeRow(sk, pk, ok)
		if err != nil {
			s.fail("decoding triple", err)
			return nil
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		s.fail("iterating triples", err)
		return nil
	}
	return out
}

func (s *TripleStore) Len() int {
	if s.err != nil {
		return 0
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM triples`).Scan(&n); err != nil {
		s.fail("counting triples", err)
		return 0
	}
	return n
}

func pattern(subj, pred, obj rdfgraph.Term) (string, []any) {
	var conds []string
	var args []any
	bind := func(col string, t rdfgraph.Term) {
		if t.IsAny() {
			return
		}
		conds = append(conds, col+" = ?")
		args = append(args, t.Key())
	}
	bind("subject", subj)
	bind("predicate", pred)
	bind("object", obj)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func decodeRow(sk, pk, ok string) (rdfgraph.Triple, error) {
	subj, err := rdfgraph.ParseKey(sk)
	if err != nil {
		return rdfgraph.Triple{}, err
	}
	pred, err := rdfgraph.ParseKey(pk)
	if err != nil {
		return rdfgraph.Triple{}, err
	}
	obj, err := rdfgraph.ParseKey(ok)
	if err != nil {
		return rdfgraph.Triple{}, err
	}
	return rdfgraph.Triple{S: subj, P: pred, O: obj}, nil
}
