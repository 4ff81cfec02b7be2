// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	A *app.ApprovalService
}

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type approveResponse struct {
	Status   string   `json:"status"`
	Approved bool     `json:"approved"`
	IDs      []string `json:"ids"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews/hostaway", h.listReviews)
	s.mux.Post("/v1/reviews/approve", h.approve)
	s.mux.Get("/v1/analytics/properties", h.propertyStats)
	s.mux.Get("/v1/analytics/aggregates", h.aggregates)
	s.mux.Get("/v1/analytics/trending", h.trending)
	s.mux.Get("/v1/analytics/issues", h.issues)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = "failed"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: "error", Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeData sends a success envelope with ETag/If-None-Match handling.
func writeData(w http.ResponseWriter, r *http.Request, data any) {
	etag, body := calcETagAndBody(envelope{Status: "success", Data: data})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := q.Get("ref")
	if ref == "" {
		ref = q.Get("propertyId")
	}
	if ref == "" {
		ref = q.Get("slug")
	}
	f := domain.ReviewFilter{
		Ref:          strings.TrimSpace(ref),
		ApprovedOnly: q.Get("approvedOnly") == "1",
	}

	data, err := h.Q.ListReviews(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		data = []domain.Review{}
	}
	writeData(w, r, data)
}

func (h *Handlers) approve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReviewID any  `json:"reviewId"`
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := reviewIDString(body.ReviewID)
	if id == "" {
		writeError(w, http.StatusBadRequest, "reviewId required")
		return
	}

	approved, ids, err := h.A.SetApproval(r.Context(), id, body.Approved)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(approveResponse{Status: "success", Approved: approved, IDs: ids}); err != nil {
		log.Error().Err(err).Msg("failed to write approve response")
	}
}

// reviewIDString accepts the id as either a JSON string or number.
func reviewIDString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func (h *Handlers) propertyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Q.PropertyStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		stats = []domain.PropertyStat{}
	}
	writeData(w, r, stats)
}

func (h *Handlers) aggregates(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	out, err := h.Q.Aggregates(r.Context(), ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []domain.ReviewAggregate{}
	}
	writeData(w, r, out)
}

func (h *Handlers) trending(w http.ResponseWriter, r *http.Request) {
	limit := app.TrendDefaultLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 50 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 50")
			return
		}
		limit = l
	}
	out, err := h.Q.Trending(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []domain.TrendingEntry{}
	}
	writeData(w, r, out)
}

func (h *Handlers) issues(w http.ResponseWriter, r *http.Request) {
	det, ok := app.DetectorByName(r.URL.Query().Get("detector"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown detector; use global or low-rating")
		return
	}
	items, err := h.Q.RepeatedIssues(r.Context(), det)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []domain.IssueItem{}
	}
	writeData(w, r, items)
}
