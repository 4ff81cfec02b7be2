package domain

// Review is the canonical record every downstream consumer works with.
// Upstream payloads arrive in many near-duplicate shapes; the normalizer in
// internal/app maps them into this one.
type Review struct {
	ID           string     `json:"id"`
	PropertyID   string     `json:"propertyId,omitempty"`
	PropertyName string     `json:"propertyName,omitempty"`
	Rating       *float64   `json:"rating,omitempty"` // 0-5 scale
	Text         string     `json:"text,omitempty"`
	GuestName    string     `json:"guestName,omitempty"`
	SubmittedAt  string     `json:"submittedAt,omitempty"` // ISO-8601; "" when unknown
	Approved     bool       `json:"approved"`
	Categories   []Category `json:"categories,omitempty"`
	RawJSON      []byte     `json:"-"`
}

// Category is a per-review aspect score on a 0-10 scale.
type Category struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}
