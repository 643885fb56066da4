// Package kbfile stores one JSON knowledge base per intent in a directory.
// Reads are lock-free; writes go to a temp file that is renamed over the
// canonical path, so a reader sees either the old or the new file, never a
// partial one.
package kbfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// Extension is the file extension of knowledge-base files.
const Extension = ".json"

// Store implements ports.KBStore over a directory of <intent>.json files.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating kb directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "kb_store").Str("dir", dir).Logger(),
	}, nil
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Load returns the entries for intent, or nil if the file is absent or
// cannot be trusted. The reason is logged, never returned.
func (s *Store) Load(ctx context.Context, intent string) []entities.Entry {
	kb, exists, err := s.read(intent)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("intent", intent).Msg("knowledge base rejected, using fallback")
		return nil
	case !exists:
		s.logger.Info().Str("intent", intent).Msg("knowledge base not found")
		return nil
	}
	return kb.Entries
}

// Read returns the stored knowledge base. A missing file is an empty
// knowledge base; an unreadable or invalid one is entities.ErrInvalidKB.
func (s *Store) Read(ctx context.Context, intent string) (*entities.KnowledgeBase, error) {
	kb, _, err := s.read(intent)
	if err != nil {
		return nil, err
	}
	return kb, nil
}

func (s *Store) read(intent string) (*entities.KnowledgeBase, bool, error) {
	if err := entities.ValidateIntent(intent); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(s.path(intent))
	if errors.Is(err, fs.ErrNotExist) {
		return &entities.KnowledgeBase{Intent: intent}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %w", entities.ErrInvalidKB, intent, err)
	}

	var kb entities.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		if errors.Is(err, entities.ErrInvalidKB) {
			return nil, true, fmt.Errorf("%s: %w", intent, err)
		}
		return nil, true, fmt.Errorf("%w: %s: %w", entities.ErrInvalidKB, intent, err)
	}
	if err := kb.Validate(); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %w", entities.ErrInvalidKB, intent, err)
	}
	if kb.Intent != intent {
		s.logger.Warn().Str("intent", intent).Str("file_intent", kb.Intent).Msg("intent field does not match file name")
		kb.Intent = intent
	}
	return &kb, true, nil
}

// Save atomically replaces the knowledge base for intent.
func (s *Store) Save(ctx context.Context, intent string, entries []entities.Entry) error {
	if err := entities.ValidateIntent(intent); err != nil {
		return err
	}
	kb := entities.KnowledgeBase{Intent: intent, Entries: entries}
	if err := kb.Validate(); err != nil {
		return fmt.Errorf("%w: refusing to save %s: %w", entities.ErrInvalidKB, intent, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kb); err != nil {
		return fmt.Errorf("encoding %s: %w", intent, err)
	}

	if err := writeAtomic(s.dir, s.path(intent), buf.Bytes()); err != nil {
		return fmt.Errorf("saving %s: %w", intent, err)
	}
	s.logger.Debug().Str("intent", intent).Int("entries", len(entries)).Msg("knowledge base saved")
	return nil
}

// ListIntents returns the sorted intents that have a file in the directory.
func (s *Store) ListIntents(ctx context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing kb directory: %w", err)
	}
	var intents []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != Extension {
			continue
		}
		intent := strings.TrimSuffix(name, Extension)
		if entities.ValidateIntent(intent) != nil {
			continue
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

func (s *Store) path(intent string) string {
	return filepath.Join(s.dir, intent+Extension)
}

// writeAtomic writes data to a hidden temp file in dir and renames it over
// path. The temp name does not end in Extension so watchers ignore it.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}

	// Persist the rename itself; not every platform supports syncing a directory.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}
