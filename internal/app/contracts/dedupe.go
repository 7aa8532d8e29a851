package contracts

import "context"

// IdempotencyGuard suppresses duplicate deliveries of the same object event.
// MarkProcessed returns false when the event was already claimed by an
// earlier delivery within the retention window.
type IdempotencyGuard interface {
	MarkProcessed(ctx context.Context, dedupeKey string) (bool, error)
	Release(ctx context.Context, dedupeKey string) error
}
