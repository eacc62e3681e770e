package capture

import (
	"context"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

// EventWriter defines the persistence required by the capture service.
type EventWriter interface {
	AppendEvent(ctx context.Context, event *models.NotFoundEvent) (int64, error)
}
