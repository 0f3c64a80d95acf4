package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/neural"
)

const (
	currentDir         = "current"
	historyDir         = "history"
	nextGenerationFile = "last-generation-number.txt"
)

// FileStore keeps one JSON file per network:
//
//	<root>/current/<idx>.json
//	<root>/history/gen-<gen>/<idx>.json
//	<root>/last-generation-number.txt
//
// The number file holds the next generation to train.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(root, currentDir), 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(root, historyDir), 0o755); err != nil {
		return nil, err
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) currentPath(idx int) string {
	return filepath.Join(s.root, currentDir, strconv.Itoa(idx)+".json")
}

func (s *FileStore) generationDir(gen int) string {
	return filepath.Join(s.root, historyDir, fmt.Sprintf("gen-%d", gen))
}

func load(path string) (*neural.Network, error) {
	n, err := neural.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return n, err
}

// save writes through a temporary file so a crash never leaves half a
// network behind.
func save(path string, n *neural.Network) error {
	tmp := path + ".tmp"
	if err := n.SaveFile(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) LoadCurrent(ctx context.Context, idx int) (*neural.Network, error) {
	return load(s.currentPath(idx))
}

func (s *FileStore) SaveCurrent(ctx context.Context, idx int, n *neural.Network) error {
	return save(s.currentPath(idx), n)
}

func (s *FileStore) SaveGeneration(ctx context.Context, gen int, population []*neural.Network) error {
	dir := s.generationDir(gen)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for idx, n := range population {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := save(filepath.Join(dir, strconv.Itoa(idx)+".json"), n); err != nil {
			return err
		}
	}
	log.Debug().Int("generation", gen).Str("dir", dir).Msg("saved-generation")
	return nil
}

func (s *FileStore) LoadIndividual(ctx context.Context, gen, idx int) (*neural.Network, error) {
	return load(filepath.Join(s.generationDir(gen), strconv.Itoa(idx)+".json"))
}

func (s *FileStore) NextGeneration(ctx context.Context) (int, error) {
	bts, err := os.ReadFile(filepath.Join(s.root, nextGenerationFile))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	gen, err := strconv.Atoi(strings.TrimSpace(string(bts)))
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", nextGenerationFile, err)
	}
	return gen, nil
}

func (s *FileStore) SetNextGeneration(ctx context.Context, gen int) error {
	return os.WriteFile(filepath.Join(s.root, nextGenerationFile), []byte(strconv.Itoa(gen)), 0o644)
}

func (s *FileStore) Close() error {
	return nil
}
