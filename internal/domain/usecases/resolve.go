// Package usecases contains application business rules: entry matching,
// language resolution, answer rendering and knowledge-base editing. They
// depend only on entities and port interfaces.
package usecases

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
)

// Replies that do not come from a knowledge base.
const (
	NotUnderstoodText  = "Sorry, I couldn't understand your question."
	MissingTextLiteral = "Sorry, I don't know the answer."
)

// ResolveUseCase turns a classified turn into a rendered answer.
type ResolveUseCase struct {
	store    ports.KBStore
	language *LanguageResolver
	logger   zerolog.Logger
}

// NewResolveUseCase creates a ResolveUseCase with injected dependencies.
func NewResolveUseCase(store ports.KBStore, language *LanguageResolver, logger zerolog.Logger) *ResolveUseCase {
	return &ResolveUseCase{
		store:    store,
		language: language,
		logger:   logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve selects an entry for the request and renders it in the resolved
// language. It never fails; the worst outcome is the fallback answer.
func (uc *ResolveUseCase) Resolve(ctx context.Context, req entities.ResolveRequest) entities.ResolvedAnswer {
	if req.Intent == "" {
		return entities.ResolvedAnswer{
			Text:     NotUnderstoodText,
			Language: entities.DefaultLanguage,
		}
	}

	// Always read fresh: edits must be visible on the next turn.
	kbEntries := uc.store.Load(ctx, req.Intent)

	entry := MatchEntry(kbEntries, req.Entities, req.Text)
	if len(kbEntries) == 0 {
		if st, ok := SmallTalkEntry(req.Intent); ok {
			entry = st
		}
	}

	lang := uc.language.Resolve(ctx, req.UserID, req.SessionLanguage, req.Text)

	text := uc.render(req.Intent, entry, lang)

	uc.logger.Info().
		Str("intent", req.Intent).
		Str("entry", entry.ID).
		Bool("fallback", IsFallback(entry)).
		Str("language", lang).
		Msg("answer resolved")

	return entities.ResolvedAnswer{Text: text, Language: lang, Persist: true}
}

func (uc *ResolveUseCase) render(intent string, entry entities.Entry, lang string) string {
	if text, ok := entry.Localized(lang); ok {
		return text
	}
	if text, ok := entry.Localized(entities.DefaultLanguage); ok {
		return text
	}
	uc.logger.Error().
		Str("intent", intent).
		Str("entry", entry.ID).
		Msg("entry has no english text, answering with literal")
	return MissingTextLiteral
}
