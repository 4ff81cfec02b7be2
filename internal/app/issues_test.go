package app_test

import (
	"strings"
	"testing"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func TestMentionsIssue_FirstGroupWins(t *testing.T) {
	// both "noisy" and "wifi" match; the noise group is declared first
	if got := app.MentionsIssue("Noisy street and the wifi kept dropping"); got != "noisy" {
		t.Fatalf("expected noisy, got %q", got)
	}
	if got := app.MentionsIssue("spotless and quiet"); got != "" {
		t.Fatalf("expected no issue, got %q", got)
	}
	if got := app.MentionsIssue(""); got != "" {
		t.Fatalf("empty text: %q", got)
	}
}

func TestGlobalDetector_SingleBucketPerReview(t *testing.T) {
	r := domain.Review{Text: "noisy room, wifi down, dirty floor"}
	issues := app.GlobalIssueDetector{}.Issues(r)
	if len(issues) != 1 || issues[0] != "noisy" {
		t.Fatalf("issues: %v", issues)
	}
}

func TestLowRatingDetector_ScopeAndBoundaries(t *testing.T) {
	det := app.LowRatingIssueDetector{}
	low, high := 2.0, 4.0

	if got := det.Issues(domain.Review{Rating: &high, Text: "so dirty"}); got != nil {
		t.Fatalf("rating >= 3 must be ignored, got %v", got)
	}
	if got := det.Issues(domain.Review{Rating: &low}); got != nil {
		t.Fatalf("empty text must be ignored, got %v", got)
	}
	if got := det.Issues(domain.Review{Text: "dirty"}); got != nil {
		t.Fatalf("unrated review must be ignored, got %v", got)
	}

	// word boundaries: "bedroom" is not a Bed complaint
	if got := det.Issues(domain.Review{Rating: &low, Text: "nice bedroom"}); got != nil {
		t.Fatalf("bedroom matched: %v", got)
	}

	got := det.Issues(domain.Review{Rating: &low, Text: "Dirty sheets, slow wifi, awful check-in"})
	want := map[string]bool{"Cleanliness": true, "Wi-Fi": true, "Check-in": true}
	if len(got) != len(want) {
		t.Fatalf("issues: %v", got)
	}
	for _, k := range got {
		if !want[k] {
			t.Fatalf("unexpected category %q in %v", k, got)
		}
	}
}

func TestComputeRepeatedIssues_MinMentionsAndOrdering(t *testing.T) {
	one, two, five := 1.0, 2.0, 5.0
	reviews := []domain.Review{
		{ID: "1", PropertyName: "A", Text: "very noisy", Rating: &five},
		{ID: "2", PropertyName: "A", Text: "loud traffic", Rating: &five},
		{ID: "3", PropertyName: "B", Text: "wifi dead", Rating: &one},
		{ID: "4", PropertyName: "B", Text: "no internet", Rating: &two},
		{ID: "5", PropertyName: "C", Text: "saw a cockroach"}, // single mention: dropped
	}
	items := app.ComputeRepeatedIssues(reviews, app.GlobalIssueDetector{})
	if len(items) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(items), items)
	}
	// equal counts: the lower average rating ranks first
	if items[0].Issue != "wifi" || items[1].Issue != "noisy" {
		t.Fatalf("order: %s, %s", items[0].Issue, items[1].Issue)
	}
	if items[0].AvgRating == nil || *items[0].AvgRating != 1.5 {
		t.Fatalf("wifi avg: %v", items[0].AvgRating)
	}
}

func TestComputeRepeatedIssues_UnratedBucketSortsLast(t *testing.T) {
	five := 5.0
	reviews := []domain.Review{
		{ID: "1", Text: "broken oven"},
		{ID: "2", Text: "useless microwave"},
		{ID: "3", Text: "dirty towels", Rating: &five},
		{ID: "4", Text: "dust everywhere", Rating: &five},
	}
	items := app.ComputeRepeatedIssues(reviews, app.GlobalIssueDetector{})
	if len(items) != 2 {
		t.Fatalf("buckets: %+v", items)
	}
	// counts tie at 2; the kitchen bucket has no rated example and sorts last
	if items[0].Issue != "dirty" || items[1].Issue != "kitchen" {
		t.Fatalf("order: %s, %s", items[0].Issue, items[1].Issue)
	}
	if items[1].AvgRating != nil {
		t.Fatalf("kitchen avgRating should be absent, got %v", *items[1].AvgRating)
	}
}

func TestComputeRepeatedIssues_ExampleLimits(t *testing.T) {
	long := "noisy " + strings.Repeat("x", 200)
	var reviews []domain.Review
	for i := 0; i < 5; i++ {
		reviews = append(reviews, domain.Review{ID: string(rune('a' + i)), PropertyName: "P", Text: long})
	}
	items := app.ComputeRepeatedIssues(reviews, app.GlobalIssueDetector{})
	if len(items) != 1 {
		t.Fatalf("buckets: %d", len(items))
	}
	b := items[0]
	if len(b.Examples) != 3 {
		t.Fatalf("examples: %d", len(b.Examples))
	}
	ex := b.Examples[0].Text
	if !strings.HasSuffix(ex, "…") {
		t.Fatalf("expected ellipsis, got %q", ex)
	}
	if got := len([]rune(strings.TrimSuffix(ex, "…"))); got != 140 {
		t.Fatalf("excerpt length: %d", got)
	}
}
