// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"
	"errors"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// ErrUndetectable is returned by a LanguageDetector that cannot make a
// confident guess (empty or ambiguous text).
var ErrUndetectable = errors.New("language not detectable")

// KBStore persists intent-scoped knowledge bases.
type KBStore interface {
	// Load returns the entries for intent. It never fails: a missing,
	// malformed or invalid file yields an empty slice and a diagnostic.
	Load(ctx context.Context, intent string) []entities.Entry

	// Read returns the knowledge base for intent, failing with
	// entities.ErrInvalidKB if the stored file cannot be trusted.
	// A missing file yields an empty knowledge base.
	Read(ctx context.Context, intent string) (*entities.KnowledgeBase, error)

	// Save atomically replaces the stored entries for intent.
	Save(ctx context.Context, intent string, entries []entities.Entry) error

	// ListIntents returns the intents that have a stored knowledge base.
	ListIntents(ctx context.Context) ([]string, error)
}

// Classifier turns raw user text into an intent and entities.
type Classifier interface {
	Classify(ctx context.Context, text string) (entities.Classification, error)
}

// ProfileStore looks up per-user language preferences.
// An unknown user is not an error: ok is false.
type ProfileStore interface {
	LanguagePreference(ctx context.Context, userID string) (pref string, ok bool, err error)
}

// SessionStore remembers the resolved language of a conversation session.
type SessionStore interface {
	// Language returns the stored code; ok is false on the first turn.
	Language(ctx context.Context, sessionID string) (lang string, ok bool, err error)

	// SetLanguage records the language resolved on this turn.
	SetLanguage(ctx context.Context, sessionID, lang string) error
}

// LanguageDetector guesses the language of a text.
type LanguageDetector interface {
	// Detect returns an ISO 639-1 code, or ErrUndetectable.
	Detect(text string) (string, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

// String returns a lower-case name for logging.
func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
