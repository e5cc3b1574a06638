package gig

import (
	"context"
	"time"
)

// Repository defines the storage interface for gigs.
type Repository interface {
	// CreateGig adds a gig. Gigs with a non-empty ExternalID replace an
	// existing gig with the same ExternalID.
	CreateGig(ctx context.Context, g *Gig) error

	// GetGig retrieves a gig by ID. Returns ErrGigNotFound if absent.
	GetGig(ctx context.Context, id string) (*Gig, error)

	// ListGigsByDateRange returns gigs dated within the range (inclusive),
	// ordered by date and start time.
	ListGigsByDateRange(ctx context.Context, start, end time.Time) ([]*Gig, error)

	// UpdateGigTimes changes a gig's start and end. An empty end clears it.
	UpdateGigTimes(ctx context.Context, id, start, end string) error

	// DeleteGig removes a gig. Returns ErrGigNotFound if absent.
	DeleteGig(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}

// GroupByDay buckets gigs by their YYYY-MM-DD date.
func GroupByDay(gigs []*Gig) map[string][]*Gig {
	out := make(map[string][]*Gig)
	for _, g := range gigs {
		key := g.Date.Format("2006-01-02")
		out[key] = append(out[key], g)
	}
	return out
}
