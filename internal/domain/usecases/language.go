package usecases

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
)

// Where a resolved language came from, for diagnostics.
const (
	SourcePreference = "preference"
	SourceSession    = "session"
	SourceDetection  = "detection"
	SourceDefault    = "default"
)

var languageNames = map[string]string{
	"english": entities.LangEnglish,
	"hindi":   entities.LangHindi,
}

var supportedLanguages = map[string]bool{
	entities.LangEnglish: true,
	entities.LangHindi:   true,
}

// NormalizeLanguage maps a preference string or language tag onto a supported
// two-letter code. It accepts names ("Hindi"), codes ("hi", "hin") and tags
// ("hi-IN", "en_US"). ok is false for anything else.
func NormalizeLanguage(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if code, ok := languageNames[s]; ok {
		return code, true
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	if code := base.String(); supportedLanguages[code] {
		return code, true
	}
	return "", false
}

// LanguageResolver picks the answer language for a turn.
//
// Sources are consulted in a fixed order: stored profile preference, the
// session language from the previous turn, detection over the message, and
// finally the default. The result is always a supported code.
type LanguageResolver struct {
	profiles ports.ProfileStore
	detector ports.LanguageDetector
	logger   zerolog.Logger
}

// NewLanguageResolver creates a resolver. profiles and detector may be nil,
// in which case their step of the cascade yields nothing.
func NewLanguageResolver(profiles ports.ProfileStore, detector ports.LanguageDetector, logger zerolog.Logger) *LanguageResolver {
	return &LanguageResolver{
		profiles: profiles,
		detector: detector,
		logger:   logger.With().Str("component", "language_resolver").Logger(),
	}
}

// Resolve returns the language code for this turn.
func (r *LanguageResolver) Resolve(ctx context.Context, userID, sessionLanguage, text string) string {
	lang, source := r.cascade(ctx, userID, sessionLanguage, text)

	code, ok := NormalizeLanguage(lang)
	if !ok {
		code = entities.DefaultLanguage
	}
	r.logger.Debug().
		Str("user_id", userID).
		Str("source", source).
		Str("language", code).
		Msg("language resolved")
	return code
}

func (r *LanguageResolver) cascade(ctx context.Context, userID, sessionLanguage, text string) (string, string) {
	if code, ok := r.preference(ctx, userID); ok {
		return code, SourcePreference
	}
	if sessionLanguage != "" {
		return sessionLanguage, SourceSession
	}
	if r.detector != nil {
		return r.detect(text), SourceDetection
	}
	return entities.DefaultLanguage, SourceDefault
}

func (r *LanguageResolver) preference(ctx context.Context, userID string) (string, bool) {
	if r.profiles == nil || userID == "" {
		return "", false
	}
	pref, ok, err := r.profiles.LanguagePreference(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("profile lookup failed, skipping stored preference")
		return "", false
	}
	if !ok {
		return "", false
	}
	return NormalizeLanguage(pref)
}

func (r *LanguageResolver) detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return entities.DefaultLanguage
	}
	code, err := r.detector.Detect(text)
	if err != nil {
		r.logger.Debug().Err(err).Msg("language detection failed")
		return entities.DefaultLanguage
	}
	if strings.HasPrefix(strings.ToLower(code), entities.LangHindi) {
		return entities.LangHindi
	}
	return entities.LangEnglish
}
