package store

import (
	"context"
	"database/sql"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// SqliteStore keeps the snapshot in a local sqlite file. meant for
// development runs and for inspecting state offline, the gist store
// is the one shared between scheduled runs.
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Load(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, numero, oggetto FROM acts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := Snapshot{}
	for rows.Next() {
		var id string
		var entry Entry
		err = rows.Scan(&id, &entry.Numero, &entry.Oggetto)
		if err != nil {
			return nil, err
		}
		snap[id] = entry
	}
	return snap, rows.Err()
}

func (s *SqliteStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for id, entry := range snap {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO acts (id, numero, oggetto) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING",
			id, entry.Numero, entry.Oggetto,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
