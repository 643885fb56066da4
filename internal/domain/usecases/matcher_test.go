package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

func TestMatchEntry_EntityIDBeatsKeyword(t *testing.T) {
	entries := []entities.Entry{
		entry("fever", "Fever answer", "slight pain"),
		entry("migraine", "Migraine answer"),
	}

	got := MatchEntry(entries, []string{"Migraine"}, "I have a slight pain")

	assert.Equal(t, "migraine", got.ID)
}

func TestMatchEntry_EntityOrderBeatsEntryOrder(t *testing.T) {
	entries := []entities.Entry{
		entry("a", "A"),
		entry("b", "B"),
	}

	got := MatchEntry(entries, []string{"b", "a"}, "")

	assert.Equal(t, "b", got.ID)
}

func TestMatchEntry_UnknownEntityFallsToKeyword(t *testing.T) {
	entries := []entities.Entry{entry("mild", "Rest", "slight pain")}

	got := MatchEntry(entries, []string{"unknown"}, "A SLIGHT PAIN here")

	assert.Equal(t, "mild", got.ID)
}

func TestMatchEntry_KeywordOrderStable(t *testing.T) {
	entries := []entities.Entry{
		entry("first", "1", "nausea"),
		entry("second", "2", "nausea"),
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, "first", MatchEntry(entries, nil, "feeling nausea").ID)
	}
}

func TestMatchEntry_EntryOrderBeatsKeywordOrder(t *testing.T) {
	entries := []entities.Entry{
		entry("first", "1", "zzz", "pain"),
		entry("second", "2", "head"),
	}

	got := MatchEntry(entries, nil, "head pain")

	assert.Equal(t, "first", got.ID)
}

func TestMatchEntry_MultiWordSubstring(t *testing.T) {
	entries := []entities.Entry{entry("chest", "Call emergency", "chest pain")}

	assert.Equal(t, "chest", MatchEntry(entries, nil, "sudden chest pain at night").ID)
	assert.True(t, IsFallback(MatchEntry(entries, nil, "pain in chest")))
}

func TestMatchEntry_Fallbacks(t *testing.T) {
	entries := []entities.Entry{entry("mild", "Rest", "slight pain")}

	tests := []struct {
		name     string
		entries  []entities.Entry
		entities []string
		text     string
	}{
		{"no entries", nil, []string{"mild"}, "slight pain"},
		{"empty text", entries, nil, ""},
		{"no match", entries, []string{"other"}, "nothing relevant"},
		{"blank entity", entries, []string{""}, "nothing"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchEntry(tc.entries, tc.entities, tc.text)
			assert.True(t, IsFallback(got))
			assert.Equal(t, FallbackTextEN, got.Text["en"])
			assert.Equal(t, FallbackTextHI, got.Text["hi"])
		})
	}
}

func TestMatchEntry_EmptyKeywordNeverMatches(t *testing.T) {
	entries := []entities.Entry{entry("a", "A", "")}

	assert.True(t, IsFallback(MatchEntry(entries, nil, "anything")))
}

func TestMatchEntry_ResultAlwaysFromEntriesOrFallback(t *testing.T) {
	entries := []entities.Entry{
		entry("mild", "A", "slight pain"),
		entry("severe", "B", "worst pain"),
	}
	inputs := []struct {
		ents []string
		text string
	}{
		{nil, ""},
		{[]string{"SEVERE"}, ""},
		{nil, "worst pain ever"},
		{[]string{"x", "mild"}, "worst pain"},
		{[]string{"x"}, "?"},
	}

	for _, in := range inputs {
		got := MatchEntry(entries, in.ents, in.text)
		if IsFallback(got) {
			continue
		}
		found := false
		for _, e := range entries {
			if e.ID == got.ID {
				found = true
			}
		}
		assert.True(t, found, "unexpected entry %q", got.ID)
	}
}

func TestFallbackEntry_IsFreshCopy(t *testing.T) {
	f := FallbackEntry()
	f.Text["en"] = "mutated"

	assert.Equal(t, FallbackTextEN, FallbackEntry().Text["en"])
}
