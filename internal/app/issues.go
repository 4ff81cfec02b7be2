package app

import (
	"regexp"
	"sort"
	"strings"

	"flex_reviews/internal/domain"
)

// An IssueDetector decides which recurring-complaint buckets a review feeds.
// Two taxonomies ship: the broad substring scan used for the global issues
// view, and the stricter low-rating scan used in per-property reporting.
// They are deliberately separate strategies, not a merged list.
type IssueDetector interface {
	Name() string
	Issues(r domain.Review) []string
}

/********** global detector: substring groups, first match wins **********/

// issueGroups are scanned in declaration order; the first group containing
// any substring match claims the review, and the group's first word is the
// canonical issue code.
var issueGroups = [][]string{
	{"noisy", "noise", "loud", "party", "traffic"},
	{"wifi", "wi-fi", "internet", "connection", "network", "signal"},
	{"dirty", "unclean", "dust", "smell", "odor", "smelly", "stain", "cleanliness", "dish", "dishes"},
	{"check in", "arrival", "access", "key", "keys", "door code"},
	{"communication", "respond", "responsive", "reply", "contact"},
	{"heating", "heater", "radiator", "ac", "aircon", "air con", "cold", "hot"},
	{"kitchen", "utensils", "microwave", "cooktop", "oven"},
	{"bathroom", "shower", "toilet", "sink"},
	{"bed", "mattress", "pillow", "blanket", "bedding"},
	{"bug", "bugs", "insect", "insects", "cockroach", "mosquito", "ant", "ants"},
}

type GlobalIssueDetector struct{}

func (GlobalIssueDetector) Name() string { return "global" }

// Issues returns at most one issue code: a review contributes to a single
// bucket even when several groups would match.
func (GlobalIssueDetector) Issues(r domain.Review) []string {
	if issue := MentionsIssue(r.Text); issue != "" {
		return []string{issue}
	}
	return nil
}

// MentionsIssue scans the keyword groups against the lower-cased text and
// returns the canonical code of the first matching group, or "".
func MentionsIssue(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, group := range issueGroups {
		for _, word := range group {
			if strings.Contains(lower, word) {
				return group[0]
			}
		}
	}
	return ""
}

/********** low-rating detector: word-boundary regexes, all matches **********/

type issueCategory struct {
	key string
	re  *regexp.Regexp
}

var lowRatingCategories = []issueCategory{
	{"Noise", regexp.MustCompile(`(?i)\b(noisy|noise|traffic|loud|street noise)\b`)},
	{"Cleanliness", regexp.MustCompile(`(?i)\b(dirty|unclean|smell|stain|dust|grime)\b`)},
	{"Wi-Fi", regexp.MustCompile(`(?i)\b(wifi|wi-?fi|internet|spotty|slow wifi)\b`)},
	{"Space", regexp.MustCompile(`(?i)\b(small|tiny|cramped)\b`)},
	{"Bed", regexp.MustCompile(`(?i)\b(bed|mattress|pillow|uncomfortable)\b`)},
	{"Check-in", regexp.MustCompile(`(?i)\b(check[\s-]?in|lockbox|code|entry)\b`)},
}

type LowRatingIssueDetector struct{}

func (LowRatingIssueDetector) Name() string { return "low-rating" }

// Issues only considers reviews rated below 3 that carry text, and reports
// every matching category.
func (LowRatingIssueDetector) Issues(r domain.Review) []string {
	if r.Rating == nil || *r.Rating >= 3 || r.Text == "" {
		return nil
	}
	var out []string
	for _, c := range lowRatingCategories {
		if c.re.MatchString(r.Text) {
			out = append(out, c.key)
		}
	}
	return out
}

/********** repeated-issue aggregation **********/

const (
	minIssueMentions = 2
	maxIssueExamples = 3
	maxExcerptLen    = 140

	// sorts unrated buckets after every real 0-5 rating
	unratedSentinel = 99.0
)

// ComputeRepeatedIssues buckets reviews by detected issue and keeps the
// recurring ones (2+ mentions), ordered by mention count, ties broken by the
// lower average rating.
func ComputeRepeatedIssues(reviews []domain.Review, det IssueDetector) []domain.IssueItem {
	type bucket struct {
		count, rated int
		sum          float64
		examples     []domain.IssueExample
	}
	buckets := make(map[string]*bucket)
	var order []string // first-seen order keeps ties stable

	for _, r := range reviews {
		for _, issue := range det.Issues(r) {
			b := buckets[issue]
			if b == nil {
				b = &bucket{}
				buckets[issue] = b
				order = append(order, issue)
			}
			b.count++
			if r.Rating != nil {
				b.rated++
				b.sum += *r.Rating
			}
			if len(b.examples) < maxIssueExamples {
				name := r.PropertyName
				if name == "" {
					name = r.PropertyID
				}
				if name == "" {
					name = "Unknown"
				}
				b.examples = append(b.examples, domain.IssueExample{
					PropertyName: name,
					Text:         truncateExcerpt(r.Text),
					Rating:       r.Rating,
				})
			}
		}
	}

	items := make([]domain.IssueItem, 0, len(order))
	for _, issue := range order {
		b := buckets[issue]
		if b.count < minIssueMentions {
			continue
		}
		item := domain.IssueItem{Issue: issue, Count: b.count, Examples: b.examples}
		if b.rated > 0 {
			avg := b.sum / float64(b.rated)
			item.AvgRating = &avg
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return issueAvg(items[i]) < issueAvg(items[j])
	})
	return items
}

func issueAvg(it domain.IssueItem) float64 {
	if it.AvgRating == nil {
		return unratedSentinel
	}
	return *it.AvgRating
}

func truncateExcerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= maxExcerptLen {
		return s
	}
	return string(runes[:maxExcerptLen]) + "…"
}
