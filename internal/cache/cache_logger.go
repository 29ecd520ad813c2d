package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// surfacing failures; stale entries expire by TTL anyway.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging failures only.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateAvailabilityCache drops all cached day views for a tutor.
func InvalidateAvailabilityCache(ctx context.Context, cm *CacheManager, tutorID string) {
	SafeInvalidatePattern(ctx, cm.Availability, fmt.Sprintf("tutor:%s:*", tutorID))
}

// InvalidateIdentityCache drops cached identity lookups for an account.
func InvalidateIdentityCache(ctx context.Context, cm *CacheManager, id, email string) {
	SafeDelete(ctx, cm.Identity,
		fmt.Sprintf("id:%s", id),
		fmt.Sprintf("email:%s", email))
}
