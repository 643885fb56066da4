package usecases

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
)

// ChatUseCase runs one conversational turn: classify, resolve, remember the
// language for the session. Collaborator failures degrade, they never abort.
type ChatUseCase struct {
	classifier    ports.Classifier
	sessions      ports.SessionStore
	resolver      *ResolveUseCase
	minConfidence float64
	logger        zerolog.Logger
}

// NewChatUseCase creates a ChatUseCase. Classifications below minConfidence
// are treated as unclassified; zero trusts the classifier verbatim.
func NewChatUseCase(
	classifier ports.Classifier,
	sessions ports.SessionStore,
	resolver *ResolveUseCase,
	minConfidence float64,
	logger zerolog.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		classifier:    classifier,
		sessions:      sessions,
		resolver:      resolver,
		minConfidence: minConfidence,
		logger:        logger.With().Str("component", "chat").Logger(),
	}
}

// Chat answers one message. The only error is a cancelled context.
func (uc *ChatUseCase) Chat(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cls := uc.classify(ctx, req.Message)
	sessionLang := uc.sessionLanguage(ctx, req.SessionID)

	answer := uc.resolver.Resolve(ctx, entities.ResolveRequest{
		Intent:          cls.Intent,
		Entities:        cls.EntityValues(),
		Text:            req.Message,
		UserID:          req.UserID,
		SessionLanguage: sessionLang,
	})

	if answer.Persist && req.SessionID != "" && uc.sessions != nil {
		if err := uc.sessions.SetLanguage(ctx, req.SessionID, answer.Language); err != nil {
			uc.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to remember session language")
		}
	}

	return &entities.ChatResponse{
		Answer:   answer.Text,
		Language: answer.Language,
		Intent:   cls.Intent,
		Entities: cls.EntityValues(),
	}, nil
}

func (uc *ChatUseCase) classify(ctx context.Context, text string) entities.Classification {
	if uc.classifier == nil {
		return entities.Classification{}
	}
	cls, err := uc.classifier.Classify(ctx, text)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("classifier unavailable, treating message as unclassified")
		return entities.Classification{}
	}
	if cls.Intent != "" && cls.Confidence < uc.minConfidence {
		uc.logger.Debug().
			Str("intent", cls.Intent).
			Float64("confidence", cls.Confidence).
			Msg("intent below confidence threshold")
		return entities.Classification{}
	}
	return cls
}

func (uc *ChatUseCase) sessionLanguage(ctx context.Context, sessionID string) string {
	if uc.sessions == nil || sessionID == "" {
		return ""
	}
	lang, ok, err := uc.sessions.Language(ctx, sessionID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session store unavailable")
		return ""
	}
	if !ok {
		return ""
	}
	return lang
}
