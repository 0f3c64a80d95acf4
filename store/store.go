// Package store persists trainer populations. The current population holds
// one network per index and is rewritten every generation; the history keeps
// a snapshot of every finished generation so later ones can be played
// against earlier ones.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/neural"
)

// ErrNotFound is returned for a network that was never saved.
var ErrNotFound = errors.New("network not found")

const (
	KindFiles  = "fs"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// sqliteFilename is created inside the data path.
const sqliteFilename = "population.db"

// Store is the persistence the trainer is given. Generation numbers count
// from 0. Implementations are safe for concurrent use.
type Store interface {
	// LoadCurrent returns ErrNotFound if index idx was never saved.
	LoadCurrent(ctx context.Context, idx int) (*neural.Network, error)
	SaveCurrent(ctx context.Context, idx int, n *neural.Network) error
	// SaveGeneration snapshots a finished generation's population.
	SaveGeneration(ctx context.Context, gen int, population []*neural.Network) error
	LoadIndividual(ctx context.Context, gen, idx int) (*neural.Network, error)
	// NextGeneration is the generation to train next: one more than the
	// last one completed, or 0 for a new store.
	NextGeneration(ctx context.Context) (int, error)
	SetNextGeneration(ctx context.Context, gen int) error
	Close() error
}

// Open returns the store selected by the store-kind config key. The caller
// must Close it.
func Open(cfg *config.Config) (Store, error) {
	dataPath := cfg.GetString(config.ConfigDataPath)
	switch strings.ToLower(cfg.GetString(config.ConfigStoreKind)) {
	case KindFiles, "":
		return NewFileStore(dataPath)
	case KindSQLite:
		return NewSQLiteStore(filepath.Join(dataPath, sqliteFilename))
	case KindMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.GetString(config.ConfigStoreKind))
}
