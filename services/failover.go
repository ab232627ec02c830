package services

import (
	"context"
	"log"
)

// FailoverResolver tries a primary resolver and silently substitutes the
// fallback when the primary fails. The substitution never surfaces to the
// caller, but it is logged so operators can see degraded turns.
type FailoverResolver struct {
	primary  Resolver
	fallback Resolver
}

// NewFailoverResolver wraps a primary resolver with a fallback.
func NewFailoverResolver(primary, fallback Resolver) *FailoverResolver {
	return &FailoverResolver{primary: primary, fallback: fallback}
}

func (r *FailoverResolver) Resolve(ctx context.Context, history []HistoryMessage, message string) (Resolution, error) {
	resolution, err := r.primary.Resolve(ctx, history, message)
	if err == nil {
		return resolution, nil
	}
	log.Printf("Remote resolver failed, falling back to local resolver: %v", err)
	return r.fallback.Resolve(ctx, history, message)
}
