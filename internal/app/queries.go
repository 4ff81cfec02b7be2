package app

import (
	"context"
	"time"

	"flex_reviews/internal/domain"
)

const reviewsCacheKey = "reviews:all"

type QueryService struct {
	repo     domain.ReviewRepository
	approved domain.ApprovalStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, a domain.ApprovalStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, approved: a, cache: c, cacheTTL: ttl}
}

// ListReviews returns canonical reviews with the approval overlay applied,
// optionally narrowed by the filter. Only the un-overlaid list is cached, so
// an approval toggle is visible on the very next read.
func (s *QueryService) ListReviews(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.approved.List(ctx)
	if err != nil {
		return nil, err
	}
	approvedSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		approvedSet[id] = struct{}{}
	}
	for i := range reviews {
		_, ok := approvedSet[reviews[i].ID]
		reviews[i].Approved = ok
	}

	reviews = filterByRef(reviews, f.Ref)
	if f.ApprovedOnly {
		kept := reviews[:0]
		for _, r := range reviews {
			if r.Approved {
				kept = append(kept, r)
			}
		}
		reviews = kept
	}
	return reviews, nil
}

// filterByRef keeps reviews matching the exact property id or the slug of
// the property name; "" keeps everything.
func filterByRef(reviews []domain.Review, ref string) []domain.Review {
	if ref == "" {
		return reviews
	}
	target := Slugify(ref)
	kept := reviews[:0]
	for _, r := range reviews {
		if r.PropertyID == ref || Slugify(r.PropertyName) == target {
			kept = append(kept, r)
		}
	}
	return kept
}

// Aggregates returns the per-property category/rating rollups, optionally
// narrowed to a single property ref.
func (s *QueryService) Aggregates(ctx context.Context, ref string) ([]domain.ReviewAggregate, error) {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeReviewAggregates(filterByRef(reviews, ref)), nil
}

// PropertyStats aggregates the full review set; approval state does not
// affect statistics, so this reads the raw list.
func (s *QueryService) PropertyStats(ctx context.Context) ([]domain.PropertyStat, error) {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		return nil, err
	}
	return ComputePropertyStats(reviews), nil
}

// Trending applies the sample-size policy (primary minimum, then the
// fallback when nothing qualifies), ranks, and caps to limit.
func (s *QueryService) Trending(ctx context.Context, limit int) ([]domain.TrendingEntry, error) {
	if limit <= 0 {
		limit = TrendDefaultLimit
	}
	stats, err := s.PropertyStats(ctx)
	if err != nil {
		return nil, err
	}

	qualifying := trendingSet(stats, TrendMinReviewsPrimary)
	if len(qualifying) == 0 {
		qualifying = trendingSet(stats, TrendMinReviewsFallback)
	}
	out := ComputeTrending(qualifying)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func trendingSet(stats []domain.PropertyStat, minCount int) []domain.PropertyStat {
	var out []domain.PropertyStat
	for _, s := range stats {
		if s.Count >= minCount && s.Avg >= TrendMinAvg {
			out = append(out, s)
		}
	}
	return out
}

// RepeatedIssues buckets reviews under the given detector strategy.
func (s *QueryService) RepeatedIssues(ctx context.Context, det IssueDetector) ([]domain.IssueItem, error) {
	reviews, err := s.loadReviews(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeRepeatedIssues(reviews, det), nil
}

// DetectorByName resolves an issue-detector strategy; "" means the global
// one.
func DetectorByName(name string) (IssueDetector, bool) {
	switch name {
	case "", "global":
		return GlobalIssueDetector{}, true
	case "low-rating":
		return LowRatingIssueDetector{}, true
	}
	return nil, false
}

func (s *QueryService) loadReviews(ctx context.Context) ([]domain.Review, error) {
	var cached []domain.Review
	if ok, _ := s.cache.Get(ctx, reviewsCacheKey, &cached); ok {
		return cached, nil
	}

	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return nil, err
	}

	// copy to avoid aliasing the repo's backing array (prevents callers from
	// mutating the cached value)
	out := make([]domain.Review, len(rs))
	copy(out, rs)
	_ = s.cache.Set(ctx, reviewsCacheKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
