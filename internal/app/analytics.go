package app

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"flex_reviews/internal/domain"
)

// Trending thresholds: properties need a minimum sample and a floor average
// before they rank; when nothing clears the primary sample size we retry
// with the smaller one.
const (
	TrendMinAvg             = 2.5
	TrendMinReviewsPrimary  = 3
	TrendMinReviewsFallback = 2
	TrendDefaultLimit       = 6
)

// propertyKey derives the one grouping a review belongs to.
func propertyKey(r domain.Review) string {
	switch {
	case r.PropertyID != "":
		return Slugify(r.PropertyID)
	case r.PropertyName != "":
		return Slugify(r.PropertyName)
	default:
		return "unknown"
	}
}

// ComputePropertyStats recomputes per-property statistics from scratch in a
// single pass. Reviews without a numeric rating still count toward the group
// size but leave the sum and the low/high tallies alone.
func ComputePropertyStats(reviews []domain.Review) []domain.PropertyStat {
	type acc struct {
		stat     domain.PropertyStat
		sum      float64
		low      int
		high     int
		lastUnix int64
	}
	var det LowRatingIssueDetector

	groups := make(map[string]*acc)
	for _, r := range reviews {
		key := propertyKey(r)
		g := groups[key]
		if g == nil {
			name := r.PropertyName
			if name == "" {
				name = r.PropertyID
			}
			if name == "" {
				name = key
			}
			g = &acc{stat: domain.PropertyStat{PropertyID: key, PropertyName: name}}
			groups[key] = g
		}

		g.stat.Count++
		if r.Rating != nil {
			g.sum += *r.Rating
			if *r.Rating < 3 {
				g.low++
			}
			if *r.Rating >= 4 {
				g.high++
			}
		}
		if t, ok := r.SubmittedTime(); ok && t.UnixMilli() > g.lastUnix {
			g.lastUnix = t.UnixMilli()
			g.stat.LastDate = t.UTC().Format(time.RFC3339)
		}
		for _, issue := range det.Issues(r) {
			if g.stat.IssueCounts == nil {
				g.stat.IssueCounts = make(map[string]int)
			}
			g.stat.IssueCounts[issue]++
		}
	}

	out := make([]domain.PropertyStat, 0, len(groups))
	for _, g := range groups {
		// max(1, count) guards the divide; low/high piggyback on the
		// same count.
		c := float64(g.stat.Count)
		if c < 1 {
			c = 1
		}
		g.stat.Avg = g.sum / c
		g.stat.LowPct = float64(g.low) / c
		g.stat.HighPct = float64(g.high) / c
		out = append(out, g.stat)
	}

	coll := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(out[i].PropertyName, out[j].PropertyName) < 0
	})
	return out
}

// ComputeReviewAggregates rolls reviews up per property: overall average,
// 1-5 rating histogram, and category-score averages keyed by the lower-cased
// category name. A review without a given category simply does not feed that
// category's average.
func ComputeReviewAggregates(reviews []domain.Review) []domain.ReviewAggregate {
	type catAcc struct {
		sum float64
		n   int
	}
	type acc struct {
		agg   domain.ReviewAggregate
		sum   float64
		rated int
		cats  map[string]*catAcc
	}

	groups := make(map[string]*acc)
	for _, r := range reviews {
		key := propertyKey(r)
		g := groups[key]
		if g == nil {
			name := r.PropertyName
			if name == "" {
				name = r.PropertyID
			}
			if name == "" {
				name = key
			}
			g = &acc{
				agg: domain.ReviewAggregate{
					PropertyID:   key,
					PropertyName: name,
					Histogram:    map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
				},
				cats: make(map[string]*catAcc),
			}
			groups[key] = g
		}

		if r.Rating != nil {
			g.rated++
			g.sum += *r.Rating
			// ratings that round outside 1..5 (e.g. the literal-0 default)
			// stay out of the histogram
			if b := int(math.Round(*r.Rating)); b >= 1 && b <= 5 {
				g.agg.Histogram[b]++
			}
		}
		for _, c := range r.Categories {
			k := strings.ToLower(strings.TrimSpace(c.Category))
			if k == "" {
				continue
			}
			ca := g.cats[k]
			if ca == nil {
				ca = &catAcc{}
				g.cats[k] = ca
			}
			ca.sum += c.Score
			ca.n++
		}
	}

	out := make([]domain.ReviewAggregate, 0, len(groups))
	for _, g := range groups {
		if g.rated > 0 {
			avg := g.sum / float64(g.rated)
			g.agg.Overall = &avg
		}
		if len(g.cats) > 0 {
			g.agg.Categories = make(map[string]domain.CategoryAverage, len(g.cats))
			for k, ca := range g.cats {
				g.agg.Categories[k] = domain.CategoryAverage{Avg: ca.sum / float64(ca.n), Count: ca.n}
			}
		}
		out = append(out, g.agg)
	}

	coll := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(out[i].PropertyName, out[j].PropertyName) < 0
	})
	return out
}

// ComputeTrending ranks stats by average rating, then by most recent review
// (ISO strings compare lexicographically; "" sorts as oldest), then by review
// count. It is a pure function: filtering by minimum sample size is the
// caller's policy.
func ComputeTrending(stats []domain.PropertyStat) []domain.TrendingEntry {
	sorted := make([]domain.PropertyStat, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Avg != b.Avg {
			return a.Avg > b.Avg
		}
		if a.LastDate != b.LastDate {
			return a.LastDate > b.LastDate
		}
		return a.Count > b.Count
	})

	out := make([]domain.TrendingEntry, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, domain.TrendingEntry{
			PropertyID:   s.PropertyID,
			PropertyName: s.PropertyName,
			Avg:          s.Avg,
			Count:        s.Count,
			LastDate:     s.LastDate,
		})
	}
	return out
}
