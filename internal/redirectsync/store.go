package redirectsync

import "context"

// Store defines the deletions required by the redirect-sync hook.
type Store interface {
	DeleteByPath(ctx context.Context, path string) error
	DeleteByPathAndDomain(ctx context.Context, path, domain string) error
}
