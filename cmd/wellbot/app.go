package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/adapters/kbfile"
	"github.com/gls-pallavi/Wellbot/internal/adapters/langdetect"
	"github.com/gls-pallavi/Wellbot/internal/adapters/nlu"
	"github.com/gls-pallavi/Wellbot/internal/adapters/profile"
	"github.com/gls-pallavi/Wellbot/internal/adapters/session"
	"github.com/gls-pallavi/Wellbot/internal/config"
	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
	"github.com/gls-pallavi/Wellbot/internal/domain/usecases"
)

// app holds the wired use cases and the resources to release on exit.
type app struct {
	store   *kbfile.Store
	resolve *usecases.ResolveUseCase
	admin   *usecases.AdminUseCase
	chat    *usecases.ChatUseCase
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	store, err := kbfile.NewStore(cfg.KB.Dir, logger)
	if err != nil {
		return nil, err
	}
	a.store = store

	var profiles ports.ProfileStore
	if cfg.Profiles.Path != "" {
		p, err := profile.NewSQLiteStore(cfg.Profiles.Path, cfg.Profiles.Timeout)
		if err != nil {
			return nil, fmt.Errorf("open profile store: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		profiles = p
	}

	var detector ports.LanguageDetector
	if cfg.Detection.Enabled {
		detector = langdetect.NewWhatlangDetector()
	}

	var sessions ports.SessionStore
	switch cfg.Session.Driver {
	case "redis":
		r, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
			PoolSize: cfg.Session.Redis.PoolSize,
			Prefix:   cfg.Session.Redis.Prefix,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		a.closers = append(a.closers, r.Close)
		sessions = r
	default:
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	var classifier ports.Classifier
	if cfg.NLU.URL != "" {
		classifier = nlu.NewRasaClassifier(cfg.NLU.URL, cfg.NLU.Token, cfg.NLU.Timeout)
	}

	language := usecases.NewLanguageResolver(profiles, detector, logger)
	a.resolve = usecases.NewResolveUseCase(store, language, logger)
	a.admin = usecases.NewAdminUseCase(store, logger)
	a.chat = usecases.NewChatUseCase(classifier, sessions, a.resolve, cfg.NLU.ConfidenceThreshold, logger)

	logger.Info().
		Str("kb_dir", store.Dir()).
		Bool("profiles", profiles != nil).
		Bool("detection", detector != nil).
		Bool("nlu", classifier != nil).
		Str("sessions", cfg.Session.Driver).
		Msg("wellbot initialized")

	return a, nil
}

// Close releases every opened resource.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
