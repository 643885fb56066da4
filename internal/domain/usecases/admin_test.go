package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// mockStore implements ports.KBStore in memory for testing.
type mockStore struct {
	mu      sync.Mutex
	kbs     map[string][]entities.Entry
	invalid map[string]bool
	saves   int
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		kbs:     make(map[string][]entities.Entry),
		invalid: make(map[string]bool),
	}
}

func (m *mockStore) put(intent string, entries ...entities.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kbs[intent] = entries
}

func (m *mockStore) Load(ctx context.Context, intent string) []entities.Entry {
	kb, err := m.Read(ctx, intent)
	if err != nil {
		return nil
	}
	return kb.Entries
}

func (m *mockStore) Read(ctx context.Context, intent string) (*entities.KnowledgeBase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invalid[intent] {
		return nil, fmt.Errorf("%w: corrupt", entities.ErrInvalidKB)
	}
	kb := &entities.KnowledgeBase{Intent: intent}
	for _, e := range m.kbs[intent] {
		kb.Entries = append(kb.Entries, e.Clone())
	}
	return kb, nil
}

func (m *mockStore) Save(ctx context.Context, intent string, entries []entities.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	stored := make([]entities.Entry, len(entries))
	for i, e := range entries {
		stored[i] = e.Clone()
	}
	m.kbs[intent] = stored
	return nil
}

func (m *mockStore) ListIntents(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.kbs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func entry(id string, en string, keywords ...string) entities.Entry {
	return entities.Entry{ID: id, Keywords: keywords, Text: map[string]string{"en": en}}
}

func ids(entries []entities.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestAdminUseCase_AddThenLoadRoundTrip(t *testing.T) {
	store := newMockStore()
	uc := NewAdminUseCase(store, zerolog.Nop())

	e := entities.Entry{
		ID:       "mild",
		Keywords: []string{"mild headache", "slight pain"},
		Text:     map[string]string{"en": "Rest and hydrate.", "hi": "आराम करें।"},
	}
	_, err := uc.AddEntry(context.Background(), "headache", e)
	require.NoError(t, err)

	loaded := store.Load(context.Background(), "headache")
	require.Len(t, loaded, 1)
	assert.Equal(t, e, loaded[0])
}

func TestAdminUseCase_AddAppendsAtEnd(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("a", "A"), entry("b", "B"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.AddEntry(context.Background(), "headache", entry("c", "C"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, ids(store.Load(context.Background(), "headache")))
}

func TestAdminUseCase_AddDuplicateAnyCase(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("Mild", "A"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.AddEntry(context.Background(), "headache", entry("mILD", "B"))

	assert.ErrorIs(t, err, entities.ErrDuplicateID)
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_AddRejectsInvalidEntry(t *testing.T) {
	store := newMockStore()
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.AddEntry(context.Background(), "headache", entities.Entry{ID: "x", Text: map[string]string{"hi": "y"}})

	assert.ErrorIs(t, err, entities.ErrInvalidEntry)
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_AddRejectsBlankEnglish(t *testing.T) {
	store := newMockStore()
	uc := NewAdminUseCase(store, zerolog.Nop())

	for _, en := range []string{"", "   "} {
		_, err := uc.AddEntry(context.Background(), "headache", entities.Entry{
			ID:   "mild",
			Text: map[string]string{"en": en, "hi": "आराम करें।"},
		})
		assert.ErrorIs(t, err, entities.ErrInvalidEntry)
	}
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_AddTrimsIDAndKeywords(t *testing.T) {
	store := newMockStore()
	uc := NewAdminUseCase(store, zerolog.Nop())

	added, err := uc.AddEntry(context.Background(), "headache", entry(" mild ", "A", " slight pain ", "  "))
	require.NoError(t, err)
	assert.Equal(t, "mild", added.ID)
	assert.Equal(t, []string{"slight pain"}, added.Keywords)

	got := store.Load(context.Background(), "headache")
	require.Len(t, got, 1)
	assert.Equal(t, "mild", got[0].ID)
	assert.Equal(t, []string{"slight pain"}, got[0].Keywords)
}

func TestAdminUseCase_EditOnInvalidKBDoesNotSave(t *testing.T) {
	store := newMockStore()
	store.invalid["headache"] = true
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.AddEntry(context.Background(), "headache", entry("a", "A"))

	assert.ErrorIs(t, err, entities.ErrInvalidKB)
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_UpdateKeepsPosition(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("a", "A"), entry("b", "B"), entry("c", "C"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	updated, err := uc.UpdateEntry(context.Background(), "headache", "b", entities.Entry{
		Keywords: []string{"new"},
		Text:     map[string]string{"en": "B2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.ID)

	got := store.Load(context.Background(), "headache")
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	assert.Equal(t, "B2", got[1].Text["en"])
	assert.Equal(t, []string{"new"}, got[1].Keywords)
}

func TestAdminUseCase_UpdateNotFound(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("a", "A"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.UpdateEntry(context.Background(), "headache", "zzz", entry("zzz", "Z"))

	assert.ErrorIs(t, err, entities.ErrEntryNotFound)
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_UpdateRenameCollision(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("a", "A"), entry("b", "B"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.UpdateEntry(context.Background(), "headache", "a", entry("B", "A2"))

	assert.ErrorIs(t, err, entities.ErrDuplicateID)
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_DeletePreservesSiblingOrder(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("a", "A"), entry("b", "B"), entry("c", "C"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	require.NoError(t, uc.DeleteEntry(context.Background(), "headache", "B"))

	got := store.Load(context.Background(), "headache")
	assert.Equal(t, []string{"a", "c"}, ids(got))
	assert.Equal(t, "A", got[0].Text["en"])
	assert.Equal(t, "C", got[1].Text["en"])
}

func TestAdminUseCase_DeleteNotFound(t *testing.T) {
	store := newMockStore()
	store.put("headache", entry("a", "A"))
	uc := NewAdminUseCase(store, zerolog.Nop())

	err := uc.DeleteEntry(context.Background(), "headache", "b")

	assert.ErrorIs(t, err, entities.ErrEntryNotFound)
	assert.Equal(t, 0, store.saves)
}

func TestAdminUseCase_SaveErrorPropagates(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("disk full")
	uc := NewAdminUseCase(store, zerolog.Nop())

	_, err := uc.AddEntry(context.Background(), "headache", entry("a", "A"))

	assert.EqualError(t, err, "disk full")
}

func TestAdminUseCase_Search(t *testing.T) {
	store := newMockStore()
	store.put("headache",
		entry("mild", "Rest and hydrate.", "slight pain"),
		entry("migraine", "See a doctor.", "throbbing"),
		entities.Entry{ID: "tension", Text: map[string]string{"en": "Relax.", "hi": "आराम करें।"}},
	)
	uc := NewAdminUseCase(store, zerolog.Nop())
	ctx := context.Background()

	got, err := uc.Search(ctx, "headache", "MI")
	require.NoError(t, err)
	assert.Equal(t, []string{"mild", "migraine"}, ids(got))

	got, err = uc.Search(ctx, "headache", "आराम")
	require.NoError(t, err)
	assert.Equal(t, []string{"tension"}, ids(got))

	got, err = uc.Search(ctx, "headache", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestAdminUseCase_ConcurrentAddsAllLand(t *testing.T) {
	store := newMockStore()
	uc := NewAdminUseCase(store, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.AddEntry(context.Background(), "headache", entry(fmt.Sprintf("e%d", i), "x"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Load(context.Background(), "headache"), 20)
}
