package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Persisted entry layout: {"id": ..., "keywords": [...], "en": ..., "hi": ...}.
// Every key other than id and keywords is a language code.
const (
	fieldID       = "id"
	fieldKeywords = "keywords"
)

// MarshalJSON writes the flat file layout with a stable key order:
// id, keywords, en, then the remaining language codes sorted.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, fieldID, e.ID, false); err != nil {
		return nil, err
	}
	keywords := e.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	if err := writeField(&buf, fieldKeywords, keywords, true); err != nil {
		return nil, err
	}
	for _, lang := range languageOrder(e.Text) {
		if err := writeField(&buf, lang, e.Text[lang], true); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flat file layout. Non-string language values are
// rejected so a later save cannot silently drop them; null ones are absent.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Entry{Text: make(map[string]string)}
	for key, val := range raw {
		switch key {
		case fieldID:
			if err := json.Unmarshal(val, &out.ID); err != nil {
				return fmt.Errorf("%w: id must be a string", ErrInvalidEntry)
			}
		case fieldKeywords:
			if err := json.Unmarshal(val, &out.Keywords); err != nil {
				return fmt.Errorf("%w: keywords must be a list of strings", ErrInvalidEntry)
			}
		default:
			// null carries no text; the language is simply absent.
			if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
				continue
			}
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("%w: field %q must be a string", ErrInvalidEntry, key)
			}
			out.Text[key] = s
		}
	}
	*e = out
	return nil
}

type kbFile struct {
	Intent  string   `json:"intent"`
	Entries *[]Entry `json:"entries"`
}

// MarshalJSON writes {"intent": ..., "entries": [...]}.
func (kb KnowledgeBase) MarshalJSON() ([]byte, error) {
	entries := kb.Entries
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(kbFile{Intent: kb.Intent, Entries: &entries}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON requires an "entries" list; the intent field is optional.
func (kb *KnowledgeBase) UnmarshalJSON(data []byte) error {
	var f kbFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Entries == nil {
		return fmt.Errorf("%w: missing entries list", ErrInvalidKB)
	}
	kb.Intent = f.Intent
	kb.Entries = *f.Entries
	return nil
}

func languageOrder(text map[string]string) []string {
	langs := make([]string, 0, len(text))
	for lang := range text {
		if lang != DefaultLanguage {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	if _, ok := text[DefaultLanguage]; ok {
		langs = append([]string{DefaultLanguage}, langs...)
	}
	return langs
}

func writeField(buf *bytes.Buffer, key string, val any, comma bool) error {
	if comma {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(val); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
