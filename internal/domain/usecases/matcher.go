package usecases

import (
	"strings"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// Built-in fallback answer, used when nothing in the knowledge base matches.
const (
	FallbackTextEN = "Sorry, I couldn't find the information. Please consult a professional."
	FallbackTextHI = "क्षमा करें, मैं जानकारी नहीं ढूंढ पाई। कृपया किसी विशेषज्ञ से परामर्श करें।"
)

// FallbackEntry returns a fresh copy of the built-in fallback entry.
func FallbackEntry() entities.Entry {
	return entities.Entry{
		Text: map[string]string{
			entities.LangEnglish: FallbackTextEN,
			entities.LangHindi:   FallbackTextHI,
		},
	}
}

// IsFallback reports whether e is the built-in fallback entry.
func IsFallback(e entities.Entry) bool {
	return e.ID == "" && e.Text[entities.LangEnglish] == FallbackTextEN
}

// MatchEntry selects the entry answering a message. It never fails.
//
// Entity ids are tried first, entity order taking precedence over entry order.
// Keywords are tried next as substrings of the lower-cased message, in stored
// entry order and then stored keyword order. Otherwise the fallback is returned.
func MatchEntry(entries []entities.Entry, entityValues []string, rawText string) entities.Entry {
	if len(entries) == 0 {
		return FallbackEntry()
	}

	for _, v := range entityValues {
		v = strings.ToLower(v)
		if v == "" {
			continue
		}
		for _, e := range entries {
			if strings.ToLower(e.ID) == v {
				return e
			}
		}
	}

	msg := strings.ToLower(rawText)
	if msg == "" {
		return FallbackEntry()
	}
	for _, e := range entries {
		for _, kw := range e.Keywords {
			kw = strings.ToLower(kw)
			if kw != "" && strings.Contains(msg, kw) {
				return e
			}
		}
	}

	return FallbackEntry()
}
