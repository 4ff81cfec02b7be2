package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"flex_reviews/internal/domain"
)

type IngestionService struct {
	client domain.HostawayClient
	repo   domain.ReviewRepository
	cache  domain.Cache
}

func NewIngestionService(c domain.HostawayClient, r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{client: c, repo: r, cache: cache}
}

// IngestListing pulls the raw review payload for one listing, normalizes it,
// and upserts the canonical reviews. 404/401-family responses are recorded
// as misses and end the run gracefully; anything else bubbles up.
func (s *IngestionService) IngestListing(ctx context.Context, listingID string, limit int) error {
	payload, err := s.client.GetReviews(ctx, listingID, limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, listingID, 404, "not found")
		case errors.Is(err, domain.ErrUnauthorized):
			_ = s.repo.LogMiss(ctx, listingID, 403, "inactive")
		default:
			return err
		}
		// Evict so we don't keep serving a stale snapshot of this source.
		s.invalidate(ctx)
		return nil
	}

	reviews := Normalize(payload)
	if len(reviews) > 0 {
		if err := s.repo.UpsertReviews(ctx, reviews); err != nil {
			return fmt.Errorf("upsert reviews failed for %s: %w", listingID, err)
		}
	}
	// success: even an empty payload invalidates, to drop stale entries
	s.invalidate(ctx)
	return nil
}

func (s *IngestionService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, reviewsCacheKey)
	}
}

type ApprovalService struct {
	store domain.ApprovalStore
}

func NewApprovalService(st domain.ApprovalStore) *ApprovalService {
	return &ApprovalService{store: st}
}

// SetApproval toggles one review id in the approval set and reports the
// resulting membership plus the full id set, sorted for stable responses.
func (s *ApprovalService) SetApproval(ctx context.Context, reviewID string, approved bool) (bool, []string, error) {
	if approved {
		if err := s.store.Add(ctx, reviewID); err != nil {
			return false, nil, err
		}
	} else {
		if err := s.store.Delete(ctx, reviewID); err != nil {
			return false, nil, err
		}
	}
	ids, err := s.store.List(ctx)
	if err != nil {
		return false, nil, err
	}
	sort.Strings(ids)
	has := false
	for _, id := range ids {
		if id == reviewID {
			has = true
			break
		}
	}
	return has, ids, nil
}
