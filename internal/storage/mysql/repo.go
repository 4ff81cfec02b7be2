package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*9)
	for _, rv := range rs {
		// Columns (from insertReviewsPrefix):
		// (id, property_id, property_name, rating, `text`, guest_name, submitted_at, categories, raw)
		values = append(values, "(?,?,?,?,?,?,?,?,?)")

		var submitted any
		if t, ok := rv.SubmittedTime(); ok {
			submitted = t.UTC()
		}
		var cats any
		if len(rv.Categories) > 0 {
			if b, err := json.Marshal(rv.Categories); err == nil {
				cats = string(b)
			}
		}

		args = append(args,
			rv.ID,
			valStr(rv.PropertyID),
			valStr(rv.PropertyName),
			valF64(rv.Rating),
			valStr(rv.Text),
			rv.GuestName,
			submitted,
			cats,
			valJSON(rv.RawJSON),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, listingID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, listingID, status, reason)
	return err
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var propID, propName, text sql.NullString
		var rating sql.NullFloat64
		var submitted sql.NullTime
		var catsJSON, rawJSON []byte

		if err := rows.Scan(
			&rv.ID,
			&propID,
			&propName,
			&rating,
			&text,
			&rv.GuestName,
			&submitted,
			&catsJSON,
			&rawJSON,
		); err != nil {
			return nil, err
		}

		rv.PropertyID = propID.String
		rv.PropertyName = propName.String
		rv.Text = text.String
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if submitted.Valid {
			rv.SubmittedAt = submitted.Time.UTC().Format(time.RFC3339)
		}
		if len(catsJSON) > 0 {
			_ = json.Unmarshal(catsJSON, &rv.Categories)
		}
		rv.RawJSON = rawJSON

		out = append(out, rv)
	}
	return out, rows.Err()
}
