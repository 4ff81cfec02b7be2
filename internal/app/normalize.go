package app

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":           {"id", "reviewId", "review_id", "uuid"},
	"propertyId":   {"propertyId", "property_id", "listingId", "listing_id", "unitId", "unit_id"},
	"propertyName": {"propertyName", "property_name", "listingName", "listing_name", "unitName", "unit_name"},
	"rating":       {"rating", "stars", "score"},
	"text":         {"text", "comment", "message", "body", "reviewText"},
	"submittedAt":  {"submittedAt", "submitted_at", "createdAt", "created_at", "date"},
	"guestName":    {"guestName", "guest_name", "reviewer", "author", "reviewerName"},
	"approved":     {"approved", "isApproved"},
}

// synthesized-id fallback parts, in precedence order
var (
	synthPropAliases = []string{"listingId", "listing_id", "propertyId", "property_id"}
	synthDateAliases = []string{"createdAt", "created_at", "date"}
)

/********** tiny helpers **********/

// firstPresent returns the first non-nil value among the given keys.
func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// firstString returns the first non-empty string for a named alias set.
func firstString(m map[string]any, key string) string {
	for _, k := range reviewAliases[key] {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// scalarString renders ids and similar scalars the way their JSON form reads
// ("7102", not "7102.000000").
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// toNumber coerces float64/int/numeric string (incl. "8,0") to a float.
// Returns nil when the value cannot be read as a number.
func toNumber(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// whenEpoch collapses a timestamp to a sort key; unparsable dates sort as 0.
func whenEpoch(s string) int64 {
	t, ok := domain.ParseWhen(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

/********** row extraction **********/

// payloadRows accepts a bare array or an object with a `data` array; any
// other shape yields nothing.
func payloadRows(input any) []map[string]any {
	switch v := input.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, it := range v {
			if m, ok := it.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		if d, ok := v["data"]; ok {
			return payloadRows(d)
		}
	}
	return nil
}

/********** normalizer **********/

// Normalize maps an arbitrary upstream payload into canonical reviews,
// newest first. Malformed records degrade to best-effort field extraction;
// this never fails.
func Normalize(input any) []domain.Review {
	rows := payloadRows(input)
	out := make([]domain.Review, 0, len(rows))

	for _, r := range rows {
		var rv domain.Review

		// ID: explicit aliases first, else synthesize a stable fallback
		// from the listing reference and the creation date.
		if v, ok := firstPresent(r, reviewAliases["id"]...); ok {
			rv.ID = scalarString(v)
		} else {
			prop := "unknown"
			if v, ok := firstPresent(r, synthPropAliases...); ok {
				prop = scalarString(v)
			}
			date := ""
			if v, ok := firstPresent(r, synthDateAliases...); ok {
				date = scalarString(v)
			}
			rv.ID = prop + "-" + date
		}

		if v, ok := firstPresent(r, reviewAliases["propertyId"]...); ok {
			rv.PropertyID = scalarString(v)
		}
		rv.PropertyName = firstString(r, "propertyName")

		// Rating chain takes the first present value and coerces it;
		// `overall` only counts when it is an actual number. An absent
		// chain is a literal 0, a present-but-unreadable value is nil.
		if v, ok := firstPresent(r, reviewAliases["rating"]...); ok {
			rv.Rating = toNumber(v)
		} else if f, ok := r["overall"].(float64); ok {
			rv.Rating = &f
		} else {
			zero := 0.0
			rv.Rating = &zero
		}

		rv.Text = firstString(r, "text")
		rv.SubmittedAt = firstString(r, "submittedAt")
		rv.GuestName = firstString(r, "guestName")
		if rv.GuestName == "" {
			rv.GuestName = "Guest"
		}

		// Overlay from the approval store replaces this later; the payload
		// value is only a fallback.
		if v, ok := firstPresent(r, reviewAliases["approved"]...); ok {
			if b, ok := v.(bool); ok {
				rv.Approved = b
			}
		}

		rv.Categories = mapCategories(r["categories"])

		if raw, err := json.Marshal(r); err == nil {
			rv.RawJSON = raw
		} else {
			log.Error().Err(err).Str("context", "Normalize").Msg("marshal review failed")
		}

		out = append(out, rv)
	}

	// Newest first; missing/unparsable dates sort as epoch 0, i.e. last.
	sort.SliceStable(out, func(i, j int) bool {
		return whenEpoch(out[i].SubmittedAt) > whenEpoch(out[j].SubmittedAt)
	})
	return out
}

// mapCategories accepts either an ordered list of {category|name, score|value}
// pairs or a flat key->score object. Object keys are expanded in ascending
// order so output stays deterministic.
func mapCategories(v any) []domain.Category {
	switch c := v.(type) {
	case []any:
		out := make([]domain.Category, 0, len(c))
		for _, it := range c {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			name := ""
			if nv, ok := firstPresent(m, "category", "name"); ok {
				name = scalarString(nv)
			}
			score := 0.0
			if sv, ok := firstPresent(m, "score", "value"); ok {
				if f := toNumber(sv); f != nil {
					score = *f
				}
			}
			out = append(out, domain.Category{Category: name, Score: score})
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]domain.Category, 0, len(keys))
		for _, k := range keys {
			score := 0.0
			if f := toNumber(c[k]); f != nil {
				score = *f
			}
			out = append(out, domain.Category{Category: k, Score: score})
		}
		return out
	}
	return nil
}
