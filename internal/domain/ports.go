package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

type ReviewRepository interface {
	// Write paths
	UpsertReviews(ctx context.Context, rs []Review) error
	LogMiss(ctx context.Context, listingID string, status int, reason string) error

	// Read paths
	ListReviews(ctx context.Context) ([]Review, error)
}

// ApprovalStore is the persisted set of approved review ids. Add/Delete are
// idempotent; ids are always in string form.
type ApprovalStore interface {
	List(ctx context.Context) ([]string, error)
	Has(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// HostawayClient fetches raw review payloads. The decoded payload is returned
// as-is; shaping it is the normalizer's job.
type HostawayClient interface {
	GetReviews(ctx context.Context, listingID string, limit int) (any, error)
}

// ReviewFilter narrows a review listing; the zero value means "everything".
type ReviewFilter struct {
	// Ref matches either the exact property id or the slug of the property
	// name.
	Ref          string
	ApprovedOnly bool
}
