package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/neural"
)

// currentGeneration marks rows of the current population.
const currentGeneration = -1

const schema = `
CREATE TABLE IF NOT EXISTS networks (
	generation INTEGER NOT NULL,
	idx        INTEGER NOT NULL,
	data       BLOB NOT NULL,
	PRIMARY KEY (generation, idx)
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const nextGenerationKey = "next-generation"

// SQLiteStore keeps the whole training history in one database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database. Use ":memory:" for a
// throwaway store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func encode(n *neural.Network) ([]byte, error) {
	var buf bytes.Buffer
	if err := n.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SQLiteStore) load(ctx context.Context, gen, idx int) (*neural.Network, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM networks WHERE generation = ? AND idx = ?`, gen, idx).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generation %d individual %d: %w", gen, idx, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	return neural.Load(bytes.NewReader(data))
}

func (s *SQLiteStore) LoadCurrent(ctx context.Context, idx int) (*neural.Network, error) {
	return s.load(ctx, currentGeneration, idx)
}

func (s *SQLiteStore) SaveCurrent(ctx context.Context, idx int, n *neural.Network) error {
	data, err := encode(n)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO networks (generation, idx, data) VALUES (?, ?, ?)`,
		currentGeneration, idx, data)
	return err
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, gen int, population []*neural.Network) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO networks (generation, idx, data) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for idx, n := range population {
		data, err := encode(n)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, gen, idx, data); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Int("generation", gen).Int("size", len(population)).Msg("saved-generation")
	return nil
}

func (s *SQLiteStore) LoadIndividual(ctx context.Context, gen, idx int) (*neural.Network, error) {
	return s.load(ctx, gen, idx)
}

func (s *SQLiteStore) NextGeneration(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, nextGenerationKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

func (s *SQLiteStore) SetNextGeneration(ctx context.Context, gen int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, nextGenerationKey, strconv.Itoa(gen))
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
