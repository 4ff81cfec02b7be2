package mysql

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n  (id, property_id, property_name, rating, `text`, guest_name, submitted_at, categories, raw)\nVALUES "

// Use VALUES(col) for broad compatibility; COALESCE keeps old value if new is NULL.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  property_id   = COALESCE(VALUES(property_id), reviews.property_id),\n" +
	"  property_name = COALESCE(VALUES(property_name), reviews.property_name),\n" +
	"  rating        = COALESCE(VALUES(rating), reviews.rating),\n" +
	"  `text`        = COALESCE(VALUES(`text`), reviews.`text`),\n" +
	"  guest_name    = COALESCE(VALUES(guest_name), reviews.guest_name),\n" +
	"  submitted_at  = COALESCE(VALUES(submitted_at), reviews.submitted_at),\n" +
	"  categories    = COALESCE(VALUES(categories), reviews.categories),\n" +
	"  raw           = COALESCE(VALUES(raw), reviews.raw),\n" +
	"  updated_at    = CURRENT_TIMESTAMP\n"

const insertMissSQL = `
INSERT INTO ingest_misses (listing_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; unknown dates sort last, ties broken by id for stable paging.
const listReviewsSQL = `
SELECT
  id,
  property_id,
  property_name,
  rating,
  ` + "`text`" + `,
  guest_name,
  submitted_at,
  categories,
  raw
FROM reviews
ORDER BY submitted_at IS NULL, submitted_at DESC, id
`
