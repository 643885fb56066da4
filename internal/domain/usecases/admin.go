package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
)

// AdminUseCase edits knowledge bases on behalf of an administrator.
// Each edit is a read-modify-write over the store; a failed edit never saves.
// Edits to the same intent are serialized here, readers are never blocked.
type AdminUseCase struct {
	store  ports.KBStore
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAdminUseCase creates an AdminUseCase over store.
func NewAdminUseCase(store ports.KBStore, logger zerolog.Logger) *AdminUseCase {
	return &AdminUseCase{
		store:  store,
		logger: logger.With().Str("component", "kb_admin").Logger(),
		locks:  make(map[string]*sync.Mutex),
	}
}

// AddEntry appends e to the intent's knowledge base and returns the entry
// as stored.
func (uc *AdminUseCase) AddEntry(ctx context.Context, intent string, e entities.Entry) (entities.Entry, error) {
	e = cleanEntry(e)
	if err := e.Validate(); err != nil {
		return entities.Entry{}, err
	}

	unlock := uc.lock(intent)
	defer unlock()

	kb, err := uc.store.Read(ctx, intent)
	if err != nil {
		return entities.Entry{}, err
	}
	if kb.IndexOf(e.ID) >= 0 {
		return entities.Entry{}, fmt.Errorf("%w: %q in %s", entities.ErrDuplicateID, e.ID, intent)
	}

	if err := uc.store.Save(ctx, intent, append(kb.Entries, e)); err != nil {
		return entities.Entry{}, err
	}
	uc.logger.Info().Str("intent", intent).Str("entry", e.ID).Msg("entry added")
	return e.Clone(), nil
}

// UpdateEntry replaces the entry with the given id, keeping its position,
// and returns the entry as stored. If e.ID is empty the existing id is
// kept; a new id must not collide.
func (uc *AdminUseCase) UpdateEntry(ctx context.Context, intent, id string, e entities.Entry) (entities.Entry, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = id
	}
	e = cleanEntry(e)
	if err := e.Validate(); err != nil {
		return entities.Entry{}, err
	}

	unlock := uc.lock(intent)
	defer unlock()

	kb, err := uc.store.Read(ctx, intent)
	if err != nil {
		return entities.Entry{}, err
	}
	idx := kb.IndexOf(id)
	if idx < 0 {
		return entities.Entry{}, fmt.Errorf("%w: %q in %s", entities.ErrEntryNotFound, id, intent)
	}
	if other := kb.IndexOf(e.ID); other >= 0 && other != idx {
		return entities.Entry{}, fmt.Errorf("%w: %q in %s", entities.ErrDuplicateID, e.ID, intent)
	}

	kb.Entries[idx] = e
	if err := uc.store.Save(ctx, intent, kb.Entries); err != nil {
		return entities.Entry{}, err
	}
	uc.logger.Info().Str("intent", intent).Str("entry", e.ID).Msg("entry updated")
	return e.Clone(), nil
}

// DeleteEntry removes the entry with the given id; siblings keep their order.
func (uc *AdminUseCase) DeleteEntry(ctx context.Context, intent, id string) error {
	unlock := uc.lock(intent)
	defer unlock()

	kb, err := uc.store.Read(ctx, intent)
	if err != nil {
		return err
	}
	idx := kb.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q in %s", entities.ErrEntryNotFound, id, intent)
	}

	kept := make([]entities.Entry, 0, len(kb.Entries)-1)
	kept = append(kept, kb.Entries[:idx]...)
	kept = append(kept, kb.Entries[idx+1:]...)
	if err := uc.store.Save(ctx, intent, kept); err != nil {
		return err
	}
	uc.logger.Info().Str("intent", intent).Str("entry", id).Msg("entry deleted")
	return nil
}

// Get returns the intent's knowledge base as stored.
func (uc *AdminUseCase) Get(ctx context.Context, intent string) (*entities.KnowledgeBase, error) {
	return uc.store.Read(ctx, intent)
}

// Search returns the entries whose id, keywords or texts contain query,
// ignoring case, in stored order. An empty query returns every entry.
func (uc *AdminUseCase) Search(ctx context.Context, intent, query string) ([]entities.Entry, error) {
	kb, err := uc.store.Read(ctx, intent)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return kb.Entries, nil
	}
	var out []entities.Entry
	for _, e := range kb.Entries {
		if e.Matches(q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListIntents returns the intents with a stored knowledge base.
func (uc *AdminUseCase) ListIntents(ctx context.Context) ([]string, error) {
	return uc.store.ListIntents(ctx)
}

func (uc *AdminUseCase) lock(intent string) func() {
	uc.mu.Lock()
	l, ok := uc.locks[intent]
	if !ok {
		l = &sync.Mutex{}
		uc.locks[intent] = l
	}
	uc.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// cleanEntry trims the id and keywords and drops blank keywords.
func cleanEntry(e entities.Entry) entities.Entry {
	e = e.Clone()
	e.ID = strings.TrimSpace(e.ID)
	if e.Keywords != nil {
		kws := e.Keywords[:0]
		for _, kw := range e.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		e.Keywords = kws
	}
	return e
}
