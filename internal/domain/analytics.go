package domain

// PropertyStat is a derived view, recomputed from scratch on every
// aggregation call; nothing here is persisted.
type PropertyStat struct {
	PropertyID   string         `json:"propertyId"` // slug grouping key
	PropertyName string         `json:"propertyName"`
	Count        int            `json:"count"`
	Avg          float64        `json:"avg"`
	LowPct       float64        `json:"lowPct"`  // fraction of reviews rated < 3
	HighPct      float64        `json:"highPct"` // fraction of reviews rated >= 4
	LastDate     string         `json:"lastDate,omitempty"` // RFC3339 of newest review, "" when none parseable
	IssueCounts  map[string]int `json:"issueCounts,omitempty"`
}

// TrendingEntry is a PropertyStat projection ranked for the dashboard.
type TrendingEntry struct {
	PropertyID   string  `json:"propertyId"`
	PropertyName string  `json:"propertyName"`
	Avg          float64 `json:"avg"`
	Count        int     `json:"count"`
	LastDate     string  `json:"lastDate,omitempty"`
}

// ReviewAggregate is the per-property rollup shown alongside the review
// list: overall average, 1-5 rating histogram, and per-category score
// averages keyed by the lower-cased category name.
type ReviewAggregate struct {
	PropertyID   string                     `json:"propertyId"`
	PropertyName string                     `json:"propertyName"`
	Overall      *float64                   `json:"overall,omitempty"` // nil when no review is rated
	Histogram    map[int]int                `json:"histogram"`         // keys 1..5, always present
	Categories   map[string]CategoryAverage `json:"categories,omitempty"`
}

// CategoryAverage averages one category's scores across the reviews that
// actually carry it; reviews lacking the category do not dilute it.
type CategoryAverage struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// IssueItem aggregates reviews whose text matched one keyword group.
type IssueItem struct {
	Issue     string         `json:"issue"`
	Count     int            `json:"count"`
	AvgRating *float64       `json:"avgRating,omitempty"`
	Examples  []IssueExample `json:"examples"`
}

type IssueExample struct {
	PropertyName string   `json:"propertyName"`
	Text         string   `json:"text"`
	Rating       *float64 `json:"rating,omitempty"`
}
