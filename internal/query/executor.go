// Package query normalizes a Query plus an optional UserSession into a
// tabular result set, delegating to the external query service when the
// session is authenticated and to a deterministic local mock otherwise.
package query

import (
	"context"
	"log/slog"
	"time"

	"smolquery/internal/domain"
)

// Column is one schema entry of a result set.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result is the normalized outcome of one query execution.
type Result struct {
	JobID  string                   `json:"jobId,omitempty"`
	Rows   []map[string]interface{} `json:"rows"`
	Schema []Column                 `json:"schema"`
}

// TableData is the raw shape returned by the external query service: a
// column schema plus rows of values aligned positionally to it.
type TableData struct {
	JobID  string
	Schema []Column
	Rows   [][]interface{}
}

// Client is the external tabular-query service collaborator.
type Client interface {
	Query(ctx context.Context, sqlText, projectID string) (*TableData, error)
}

// ClientFactory binds a session access token to a Client. Tokens change per
// sign-in, so the executor builds a client per authenticated call.
type ClientFactory func(ctx context.Context, accessToken string) (Client, error)

// defaultMockDelay simulates the latency of a real query round trip.
const defaultMockDelay = 50 * time.Millisecond

// Executor runs queries, mutating the Query's status/updatedAt/lastError as
// a side effect. Execution failures are recorded on the Query and always
// propagated, never swallowed.
type Executor struct {
	clients   ClientFactory
	projectID string
	logger    *slog.Logger
	mockDelay time.Duration
	now       func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithMockDelay overrides the simulated delay of the mock path.
func WithMockDelay(d time.Duration) Option {
	return func(e *Executor) { e.mockDelay = d }
}

// NewExecutor creates an Executor. clients may be nil when no external query
// service is configured; authenticated calls then fail with an
// authentication error instead of silently falling back to the mock.
func NewExecutor(clients ClientFactory, projectID string, logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		clients:   clients,
		projectID: projectID,
		logger:    logger,
		mockDelay: defaultMockDelay,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs q and returns its result set. The query is re-validated
// first; invalid input fails before any status mutation. On entry the query
// moves to running; it ends completed on success or failed (with lastError
// set) on any error, and the error is returned to the caller.
func (e *Executor) Execute(ctx context.Context, q *domain.Query, sess *domain.UserSession) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	q.Start()

	if sess != nil && sess.IsAuthenticated() {
		result, err := e.executeRemote(ctx, q, sess)
		if err != nil {
			q.Fail(err)
			return nil, err
		}
		q.Complete()
		return result, nil
	}

	result, err := e.executeMock(ctx, q)
	if err != nil {
		q.Fail(err)
		return nil, err
	}
	q.Complete()
	return result, nil
}

// executeRemote delegates to the external query service and converts its
// typed column/row representation into result rows.
func (e *Executor) executeRemote(ctx context.Context, q *domain.Query, sess *domain.UserSession) (*Result, error) {
	if e.clients == nil || sess.AccessToken == nil {
		return nil, domain.ErrAuthentication("User not authenticated")
	}

	client, err := e.clients(ctx, *sess.AccessToken)
	if err != nil {
		return nil, domain.ErrExecution(err)
	}

	start := e.now()
	data, err := client.Query(ctx, q.SQL, e.projectID)
	if err != nil {
		return nil, domain.ErrExecution(err)
	}
	e.logger.Debug("remote query finished",
		"query_id", q.ID,
		"job_id", data.JobID,
		"rows", len(data.Rows),
		"duration", time.Since(start))

	rows := make([]map[string]interface{}, 0, len(data.Rows))
	for _, raw := range data.Rows {
		row := make(map[string]interface{}, len(data.Schema))
		for i, col := range data.Schema {
			var v interface{}
			if i < len(raw) {
				v = raw[i]
			}
			row[col.Name] = convertValue(col.Type, v)
		}
		rows = append(rows, row)
	}

	schema := make([]Column, len(data.Schema))
	copy(schema, data.Schema)

	return &Result{JobID: data.JobID, Rows: rows, Schema: schema}, nil
}
