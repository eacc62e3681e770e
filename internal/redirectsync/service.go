package redirectsync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
)

// Service removes not-found events once an external redirect handles their
// path, so resolved 404 noise never re-surfaces in the admin views.
type Service struct {
	store  Store
	logger logging.Logger
}

// NewService creates a redirect-sync service.
func NewService(store Store, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// RedirectCreated deletes events matching the redirect's source URL. With
// no channels the deletion spans every domain; otherwise it is scoped to
// each channel's hostname, and channels without a hostname are skipped
// silently. An empty source URL is a no-op.
func (s *Service) RedirectCreated(ctx context.Context, sourceURL string, channels []models.RedirectChannel) error {
	if sourceURL == "" {
		return nil
	}

	if len(channels) == 0 {
		if err := s.store.DeleteByPath(ctx, sourceURL); err != nil {
			return fmt.Errorf("redirect sync delete: %w", err)
		}
		s.logger.Info("deleted not-found events for redirected path",
			zap.String("source_url", sourceURL))
		return nil
	}

	for _, channel := range channels {
		if channel.Hostname == "" {
			continue
		}
		if err := s.store.DeleteByPathAndDomain(ctx, sourceURL, channel.Hostname); err != nil {
			return fmt.Errorf("redirect sync delete for %s: %w", channel.Hostname, err)
		}
		s.logger.Info("deleted not-found events for redirected path",
			zap.String("source_url", sourceURL),
			zap.String("domain", channel.Hostname),
			zap.String("channel", channel.Code))
	}

	return nil
}
