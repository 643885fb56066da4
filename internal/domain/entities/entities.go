// Package entities contains core business entities.
// These are pure domain objects: knowledge-base entries, classifier output and
// resolution results. They know nothing about files, HTTP or databases.
package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Language codes understood by the resolver.
const (
	LangEnglish = "en"
	LangHindi   = "hi"

	// DefaultLanguage is the mandatory variant of every entry and the last
	// resort of the language cascade.
	DefaultLanguage = LangEnglish
)

// Domain errors surfaced to the admin edit surface.
var (
	ErrDuplicateID   = errors.New("entry id already exists")
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrInvalidKB     = errors.New("invalid knowledge base")
	ErrInvalidIntent = errors.New("invalid intent name")
)

// Entry is one answerable unit within an intent's knowledge base.
type Entry struct {
	ID       string
	Keywords []string
	// Text maps a language code to the localized answer. "en" is mandatory.
	Text map[string]string
}

// HasID reports whether the entry's id equals id, ignoring case.
func (e Entry) HasID(id string) bool {
	return strings.EqualFold(e.ID, id)
}

// Localized returns the answer for lang. A blank text counts as absent.
func (e Entry) Localized(lang string) (string, bool) {
	s, ok := e.Text[lang]
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Validate checks the entry against the persisted schema.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if _, ok := e.Localized(DefaultLanguage); !ok {
		return fmt.Errorf("%w: entry %q has no %q text", ErrInvalidEntry, e.ID, DefaultLanguage)
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (e Entry) Clone() Entry {
	out := Entry{ID: e.ID}
	if e.Keywords != nil {
		out.Keywords = append([]string(nil), e.Keywords...)
	}
	if e.Text != nil {
		out.Text = make(map[string]string, len(e.Text))
		for k, v := range e.Text {
			out.Text[k] = v
		}
	}
	return out
}

// Matches reports whether q (already lower-cased) occurs in the id, any
// keyword or any localized text.
func (e Entry) Matches(q string) bool {
	if strings.Contains(strings.ToLower(e.ID), q) {
		return true
	}
	for _, kw := range e.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	for _, t := range e.Text {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// KnowledgeBase is the ordered set of entries for one intent.
// Order matters: it breaks keyword ties and receives appends at the end.
type KnowledgeBase struct {
	Intent  string
	Entries []Entry
}

// IndexOf returns the position of the entry with the given id, or -1.
func (kb *KnowledgeBase) IndexOf(id string) int {
	for i, e := range kb.Entries {
		if e.HasID(id) {
			return i
		}
	}
	return -1
}

// Validate checks every entry and the case-insensitive uniqueness of ids.
func (kb *KnowledgeBase) Validate() error {
	seen := make(map[string]struct{}, len(kb.Entries))
	for i, e := range kb.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		key := strings.ToLower(e.ID)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("entry %d: %w: %q", i, ErrDuplicateID, e.ID)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ExtractedEntity is one structured value pulled from user text by the NLU.
type ExtractedEntity struct {
	Entity string
	Value  string
}

// Classification is the NLU classifier's verdict for one message.
// An empty Intent means nothing was classified.
type Classification struct {
	Intent     string
	Confidence float64
	Entities   []ExtractedEntity
}

// EntityValues returns the entity values in classifier order.
func (c Classification) EntityValues() []string {
	if len(c.Entities) == 0 {
		return nil
	}
	values := make([]string, len(c.Entities))
	for i, e := range c.Entities {
		values[i] = e.Value
	}
	return values
}

// ResolveRequest carries everything the resolution engine needs for one turn.
type ResolveRequest struct {
	Intent          string
	Entities        []string
	Text            string
	UserID          string
	SessionLanguage string
}

// ResolvedAnswer is the rendered answer and the language it was rendered in.
// Persist tells the caller whether Language should be remembered as the
// session language for the next turn.
type ResolvedAnswer struct {
	Text     string
	Language string
	Persist  bool
}

// ChatRequest is one user turn in a conversation session.
type ChatRequest struct {
	SessionID string
	UserID    string
	Message   string
}

// ChatResponse is the bot's reply to a ChatRequest.
type ChatResponse struct {
	Answer   string
	Language string
	Intent   string
	Entities []string
}

// ValidateIntent checks that an intent name is safe to use as a resource name:
// letters, digits, '_' and '-' only.
func ValidateIntent(intent string) error {
	if intent == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIntent)
	}
	for _, r := range intent {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidIntent, intent)
		}
	}
	return nil
}
