package capture

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
	"github.com/fourohfour/notfound-tracker/pkg/clock"
)

// Service records not-found events, applying the configured skip patterns
// before writing.
type Service struct {
	store        EventWriter
	logger       logging.Logger
	skipPatterns []string
	clock        clock.Clock
}

// NewService creates a capture service. skipPatterns are literal substrings
// checked against the request path; matching paths are never recorded.
func NewService(store EventWriter, logger logging.Logger, skipPatterns []string) *Service {
	return NewServiceWithClock(store, logger, skipPatterns, clock.RealClock{})
}

// NewServiceWithClock creates a capture service with an injected clock for
// deterministic tests.
func NewServiceWithClock(store EventWriter, logger logging.Logger, skipPatterns []string, clk clock.Clock) *Service {
	return &Service{
		store:        store,
		logger:       logger,
		skipPatterns: skipPatterns,
		clock:        clk,
	}
}

// Capture validates, applies the skip rule, and persists a single 404
// event. Returns whether an event was recorded.
//
// Persistence failures are logged and swallowed: capture sits in the 404
// path of the storefront, and a storage fault must never turn a 404 into
// a 500.
func (s *Service) Capture(ctx context.Context, req models.CaptureRequest) bool {
	if s.shouldSkip(req.Path) {
		s.logger.Debug("skipping not-found event",
			zap.String("domain", req.Domain),
			zap.String("path", req.Path))
		return false
	}

	event := &models.NotFoundEvent{
		URLDomain:   req.Domain,
		URLPath:     req.Path,
		QueryString: req.QueryString,
		UserAgent:   req.UserAgent,
		CreatedAt:   s.clock.Now().UTC(),
	}

	if _, err := s.store.AppendEvent(ctx, event); err != nil {
		s.logger.Error("failed to record not-found event",
			zap.Error(err),
			zap.String("url", fullURL(req)),
			zap.String("user_agent", stringOrEmpty(req.UserAgent)))
		return false
	}

	return true
}

// shouldSkip reports whether path contains any configured skip pattern.
// This is literal substring containment, not prefix or glob matching: a
// pattern like "/api" also matches "/my-api-docs".
func (s *Service) shouldSkip(path string) bool {
	for _, pattern := range s.skipPatterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func fullURL(req models.CaptureRequest) string {
	url := req.Domain + req.Path
	if req.QueryString != nil && *req.QueryString != "" {
		url += "?" + *req.QueryString
	}
	return url
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
