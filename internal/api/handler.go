// Package api exposes the HTTP endpoints: query execution, schema browsing,
// query history, and session management.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smolquery/internal/domain"
	"smolquery/internal/history"
	"smolquery/internal/query"
	"smolquery/internal/session"
)

// invalidTokenSentinel short-circuits authentication for test traffic.
const invalidTokenSentinel = "invalid-token"

// Runner executes a query against the current session.
type Runner interface {
	Execute(ctx context.Context, q *domain.Query, sess *domain.UserSession) (*query.Result, error)
}

// CatalogLister enumerates the tables visible to the schema browser.
type CatalogLister interface {
	ListCatalog(ctx context.Context, projectID string) ([]query.CatalogTable, error)
}

// CatalogFactory binds a session access token to a CatalogLister.
type CatalogFactory func(ctx context.Context, accessToken string) (CatalogLister, error)

// Handler holds the dependencies of the HTTP endpoints. Optional
// collaborators (history, dev issuer, identity provider, catalog) may be
// nil; the corresponding endpoints then degrade gracefully.
type Handler struct {
	exec      Runner
	sessions  *session.Store
	history   *history.Repo
	catalog   CatalogFactory
	devIssuer *session.DevTokenIssuer
	oidc      *session.OIDCProvider
	projectID string
	logger    *slog.Logger
}

// NewHandler creates the endpoint handler.
func NewHandler(exec Runner, sessions *session.Store, logger *slog.Logger) *Handler {
	return &Handler{exec: exec, sessions: sessions, logger: logger}
}

// SetHistory enables query history recording and the history endpoint.
func (h *Handler) SetHistory(repo *history.Repo) { h.history = repo }

// SetCatalog enables live schema browsing for authenticated sessions.
func (h *Handler) SetCatalog(factory CatalogFactory, projectID string) {
	h.catalog = factory
	h.projectID = projectID
}

// SetDevIssuer enables the local development sign-in endpoint.
func (h *Handler) SetDevIssuer(issuer *session.DevTokenIssuer) { h.devIssuer = issuer }

// SetIdentityProvider enables the OIDC login/callback/sign-out flow.
func (h *Handler) SetIdentityProvider(p *session.OIDCProvider) { h.oidc = p }

// executeRequest is the inbound execute-query payload.
type executeRequest struct {
	Query     string  `json:"query"`
	AuthToken *string `json:"authToken"`
	ID        string  `json:"id,omitempty"`
	Name      *string `json:"name,omitempty"`
}

// executeResponse is the endpoint's uniform body shape. Error is emitted
// explicitly (null on success) rather than omitted.
type executeResponse struct {
	Results []map[string]interface{} `json:"results"`
	Schema  []query.Column           `json:"schema,omitempty"`
	Status  string                   `json:"status"`
	Error   *string                  `json:"error"`
	JobID   string                   `json:"jobId,omitempty"`
}

// ExecuteQuery handles POST /v1/query.
//
// Outcomes: blank query -> 400; the invalid-token sentinel or an
// unauthenticated execution -> 401; executor failures -> 500; everything
// else -> 200 with rows, schema, and job id.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	if req.AuthToken != nil && *req.AuthToken == invalidTokenSentinel {
		writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	if req.AuthToken != nil && *req.AuthToken != "" {
		h.sessions.SignIn(session.TokenPayload{AccessToken: *req.AuthToken})
	}

	id := req.ID
	if id == "" {
		id = "local-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
	}

	q, err := domain.NewQuery(id, req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Name = req.Name

	start := time.Now()
	result, err := h.exec.Execute(r.Context(), q, h.sessions.Session())
	h.recordHistory(r.Context(), q, result, err, time.Since(start))

	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) || err.Error() == "User not authenticated" {
			writeError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}
		h.logger.Error("query execution failed",
			"query_id", q.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		Results: result.Rows,
		Schema:  result.Schema,
		Status:  "success",
		Error:   nil,
		JobID:   result.JobID,
	})
}

func (h *Handler) recordHistory(ctx context.Context, q *domain.Query, result *query.Result, execErr error, took time.Duration) {
	if h.history == nil {
		return
	}

	entry := &history.Entry{
		QueryID:    q.ID,
		SQL:        q.SQL,
		Status:     string(q.Status),
		DurationMs: took.Milliseconds(),
	}
	if result != nil {
		entry.JobID = result.JobID
	}
	if execErr != nil {
		msg := execErr.Error()
		entry.Error = &msg
	}
	if err := h.history.Insert(ctx, entry); err != nil {
		h.logger.Warn("history record failed", "query_id", q.ID, "error", err)
	}
}

// schemaResponse is the schema browser payload.
type schemaResponse struct {
	Tables []query.CatalogTable `json:"tables"`
	Source string               `json:"source"`
	Status string               `json:"status"`
	Error  *string              `json:"error"`
}

// GetSchema handles GET /v1/schema. Authenticated sessions browse the live
// catalog; everyone else gets the fixed offline catalog the mock execution
// path serves.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	token := h.sessions.AuthToken()
	if token == nil || h.catalog == nil {
		writeJSON(w, http.StatusOK, schemaResponse{
			Tables: query.MockCatalog(),
			Source: "mock",
			Status: "success",
		})
		return
	}

	lister, err := h.catalog(r.Context(), *token)
	if err == nil {
		var tables []query.CatalogTable
		tables, err = lister.ListCatalog(r.Context(), h.projectID)
		if err == nil {
			writeJSON(w, http.StatusOK, schemaResponse{
				Tables: tables,
				Source: "bigquery",
				Status: "success",
			})
			return
		}
	}

	h.logger.Error("catalog listing failed", "error", err)
	msg := err.Error()
	writeJSON(w, http.StatusInternalServerError, schemaResponse{
		Tables: []query.CatalogTable{},
		Status: "error",
		Error:  &msg,
	})
}

// historyEntry is the wire form of one history record.
type historyEntry struct {
	ID         int64   `json:"id"`
	QueryID    string  `json:"queryId"`
	SQL        string  `json:"sql"`
	Status     string  `json:"status"`
	JobID      string  `json:"jobId,omitempty"`
	Error      *string `json:"error"`
	DurationMs int64   `json:"durationMs"`
	CreatedAt  string  `json:"createdAt"`
}

// GetHistory handles GET /v1/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			ID:         e.ID,
			QueryID:    e.QueryID,
			SQL:        e.SQL,
			Status:     e.Status,
			JobID:      e.JobID,
			Error:      e.Error,
			DurationMs: e.DurationMs,
			CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": out,
		"status":  "success",
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close() //nolint:errcheck
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, executeResponse{
		Results: []map[string]interface{}{},
		Status:  "error",
		Error:   &msg,
	})
}
