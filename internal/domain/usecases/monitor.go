package usecases

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gls-pallavi/Wellbot/internal/domain/ports"
)

// KBMonitor re-validates knowledge-base files edited outside the admin
// surface, so a broken hand edit is reported when it happens instead of
// silently turning every answer for that intent into the fallback.
type KBMonitor struct {
	watcher ports.FileWatcher
	store   ports.KBStore
	logger  zerolog.Logger
}

// NewKBMonitor creates a KBMonitor.
func NewKBMonitor(watcher ports.FileWatcher, store ports.KBStore, logger zerolog.Logger) *KBMonitor {
	return &KBMonitor{
		watcher: watcher,
		store:   store,
		logger:  logger.With().Str("component", "kb_monitor").Logger(),
	}
}

// Run watches dir until ctx is cancelled or the watcher closes.
// The returned channel receives the intent of every event after it has been
// checked; it is closed when Run stops. Callers may ignore it.
func (m *KBMonitor) Run(ctx context.Context, dir string) (<-chan string, error) {
	events, err := m.watcher.Watch(ctx, dir)
	if err != nil {
		return nil, err
	}

	checked := make(chan string, 16)
	go func() {
		defer close(checked)
		for ev := range events {
			intent := strings.TrimSuffix(filepath.Base(ev.Path), filepath.Ext(ev.Path))
			m.check(ctx, intent, ev.Operation)

			select {
			case checked <- intent:
			default:
			}
		}
	}()
	return checked, nil
}

func (m *KBMonitor) check(ctx context.Context, intent string, op ports.FileOperation) {
	log := m.logger.With().Str("intent", intent).Str("op", op.String()).Logger()
	if op == ports.FileDeleted {
		log.Warn().Msg("knowledge base removed, intent will answer with the fallback")
		return
	}

	kb, err := m.store.Read(ctx, intent)
	if err != nil {
		log.Error().Err(err).Msg("knowledge base failed validation, intent will answer with the fallback")
		return
	}
	log.Info().Int("entries", len(kb.Entries)).Msg("knowledge base changed")
}
