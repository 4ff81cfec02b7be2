//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"flex_reviews/internal/domain"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

// ---------- small helpers ----------
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=flex",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "flex")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndList(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	r1 := domain.Review{
		ID:           "7453",
		PropertyID:   "155613",
		PropertyName: "2B N1 A - 29 Shoreditch Heights",
		Rating:       pfloat(4.5),
		Text:         "Great stay, would come back.",
		GuestName:    "Ana",
		SubmittedAt:  "2024-05-10T14:30:00Z",
		Categories:   []domain.Category{{Category: "cleanliness", Score: 10}},
		RawJSON:      []byte(`{}`),
	}
	r2 := domain.Review{
		ID:          "7454",
		PropertyID:  "155613",
		GuestName:   "Bob",
		SubmittedAt: "not-a-date", // stored as NULL, sorts last
		RawJSON:     []byte(`{}`),
	}
	if err := repo.UpsertReviews(ctx, []domain.Review{r1, r2}); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	// Re-ingest the same id with gaps: COALESCE must keep the old values.
	if err := repo.UpsertReviews(ctx, []domain.Review{{
		ID:        "7453",
		GuestName: "Ana",
		Text:      "Great stay, would come back. (edited)",
		RawJSON:   []byte(`{}`),
	}}); err != nil {
		t.Fatalf("UpsertReviews (dup): %v", err)
	}

	got, err := repo.ListReviews(ctx)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 reviews, got %d", len(got))
	}
	// dated row first, NULL submitted_at last
	if got[0].ID != "7453" || got[1].ID != "7454" {
		t.Fatalf("order: %s, %s", got[0].ID, got[1].ID)
	}

	first := got[0]
	if first.Rating == nil || *first.Rating != 4.5 {
		t.Fatalf("rating survived dup upsert? %+v", first.Rating)
	}
	if first.PropertyID != "155613" || first.PropertyName != "2B N1 A - 29 Shoreditch Heights" {
		t.Fatalf("property fields: %+v", first)
	}
	if first.Text != "Great stay, would come back. (edited)" {
		t.Fatalf("text not updated: %q", first.Text)
	}
	if first.SubmittedAt != "2024-05-10T14:30:00Z" {
		t.Fatalf("submitted_at: %q", first.SubmittedAt)
	}
	if len(first.Categories) != 1 || first.Categories[0].Category != "cleanliness" {
		t.Fatalf("categories: %+v", first.Categories)
	}
	if got[1].Rating != nil || got[1].SubmittedAt != "" {
		t.Fatalf("null columns came back non-zero: %+v", got[1])
	}
}

func TestRepo_MySQL_LogMiss(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.LogMiss(ctx, "999999", 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	// same key again just refreshes seen_at
	if err := repo.LogMiss(ctx, "999999", 404, "not found"); err != nil {
		t.Fatalf("LogMiss (dup): %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingest_misses").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 miss row, got %d", n)
	}
}
