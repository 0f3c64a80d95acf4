package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/neural"
)

func newNetworks(t *testing.T, count int) []*neural.Network {
	nets := make([]*neural.Network, count)
	for i := range nets {
		n, err := neural.New([]int{32, 3, 1})
		if err != nil {
			t.Fatal(err)
		}
		nets[i] = n
	}
	return nets
}

func sameNetwork(a, b *neural.Network) bool {
	bd := board.Initial()
	return a.K() == b.K() && a.Evaluate(&bd) == b.Evaluate(&bd)
}

func exerciseStore(t *testing.T, s Store) {
	is := is.New(t)
	ctx := context.Background()
	defer s.Close()

	gen, err := s.NextGeneration(ctx)
	is.NoErr(err)
	is.Equal(gen, 0)

	_, err = s.LoadCurrent(ctx, 0)
	is.True(errors.Is(err, ErrNotFound))
	_, err = s.LoadIndividual(ctx, 0, 0)
	is.True(errors.Is(err, ErrNotFound))

	nets := newNetworks(t, 3)
	for i, n := range nets {
		is.NoErr(s.SaveCurrent(ctx, i, n))
	}
	loaded, err := s.LoadCurrent(ctx, 2)
	is.NoErr(err)
	is.True(sameNetwork(loaded, nets[2]))

	// Overwriting an index replaces it.
	is.NoErr(s.SaveCurrent(ctx, 2, nets[0]))
	loaded, err = s.LoadCurrent(ctx, 2)
	is.NoErr(err)
	is.True(sameNetwork(loaded, nets[0]))

	is.NoErr(s.SaveGeneration(ctx, 4, nets))
	loaded, err = s.LoadIndividual(ctx, 4, 1)
	is.NoErr(err)
	is.True(sameNetwork(loaded, nets[1]))
	_, err = s.LoadIndividual(ctx, 4, 3)
	is.True(errors.Is(err, ErrNotFound))

	is.NoErr(s.SetNextGeneration(ctx, 5))
	gen, err = s.NextGeneration(ctx)
	is.NoErr(err)
	is.Equal(gen, 5)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	is.NoErr(err)
	nets := newNetworks(t, 2)
	is.NoErr(s.SaveGeneration(context.Background(), 7, nets))
	n, err := neural.LoadFile(filepath.Join(dir, "history", "gen-7", "1.json"))
	is.NoErr(err)
	is.True(sameNetwork(n, nets[1]))
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pop.db"))
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestOpen(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, t.TempDir())

	cfg.Set(config.ConfigStoreKind, KindSQLite)
	s, err := Open(cfg)
	is.NoErr(err)
	_, ok := s.(*SQLiteStore)
	is.True(ok)
	is.NoErr(s.Close())

	cfg.Set(config.ConfigStoreKind, "tape")
	_, err = Open(cfg)
	is.True(err != nil)
}
