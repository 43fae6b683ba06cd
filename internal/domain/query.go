package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// QueryStatus represents the lifecycle state of a query.
type QueryStatus string

// Query lifecycle statuses.
const (
	QueryStatusDraft     QueryStatus = "draft"
	QueryStatusRunning   QueryStatus = "running"
	QueryStatusCompleted QueryStatus = "completed"
	QueryStatusFailed    QueryStatus = "failed"
)

// ValidQueryStatus reports whether s is one of the four known statuses.
func ValidQueryStatus(s QueryStatus) bool {
	switch s {
	case QueryStatusDraft, QueryStatusRunning, QueryStatusCompleted, QueryStatusFailed:
		return true
	}
	return false
}

// Query pairs SQL text with lifecycle status and error state.
type Query struct {
	ID        string
	SQL       string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    QueryStatus
	LastError *string
}

// queryDoc is the JSON wire form of a Query. LastError deliberately has no
// omitempty: an explicit null must survive the round trip.
type queryDoc struct {
	ID        string      `json:"id"`
	SQL       string      `json:"sql"`
	Name      *string     `json:"name,omitempty"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Status    QueryStatus `json:"status"`
	LastError *string     `json:"lastError"`
}

// NewQuery constructs a draft Query with the given id and SQL text.
func NewQuery(id, sqlText string) (*Query, error) {
	now := time.Now().UTC()
	q := &Query{
		ID:        id,
		SQL:       sqlText,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    QueryStatusDraft,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// QueryFromJSON parses and validates a Query from its JSON wire form.
// A payload that is not a JSON object is rejected with a ValidationError.
func QueryFromJSON(data []byte) (*Query, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}

	var doc queryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrValidation("invalid query payload: %v", err)
	}

	status := doc.Status
	if status == "" {
		status = QueryStatusDraft
	}
	if !ValidQueryStatus(status) {
		return nil, ErrValidation("invalid query status %q", doc.Status)
	}

	q := &Query{
		ID:        doc.ID,
		SQL:       doc.SQL,
		Name:      doc.Name,
		CreatedAt: parseTimestamp(doc.CreatedAt),
		UpdatedAt: parseTimestamp(doc.UpdatedAt),
		Status:    status,
		LastError: doc.LastError,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// ToJSON serializes the Query to its wire form.
func (q *Query) ToJSON() ([]byte, error) {
	doc := queryDoc{
		ID:        q.ID,
		SQL:       q.SQL,
		Name:      q.Name,
		CreatedAt: formatTimestamp(q.CreatedAt),
		UpdatedAt: formatTimestamp(q.UpdatedAt),
		Status:    q.Status,
		LastError: q.LastError,
	}
	return json.Marshal(doc)
}

// Validate checks the required fields and reports every failing field in a
// single error, id first, then sql.
func (q *Query) Validate() error {
	var missing []string
	if strings.TrimSpace(q.ID) == "" {
		missing = append(missing, "id is required")
	}
	if strings.TrimSpace(q.SQL) == "" {
		missing = append(missing, "sql is required")
	}
	if len(missing) > 0 {
		return ErrValidation("%s", strings.Join(missing, ", "))
	}
	return nil
}

// Clone produces an independent copy with the given field overrides applied
// on top of the serialized form, re-validated through the construction path.
// Fields not present in overrides keep their current values exactly,
// including status and lastError.
func (q *Query) Clone(overrides map[string]interface{}) (*Query, error) {
	raw, err := q.ToJSON()
	if err != nil {
		return nil, ErrValidation("serialize query: %v", err)
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, ErrValidation("reparse query: %v", err)
	}
	for k, v := range overrides {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, ErrValidation("merge overrides: %v", err)
	}
	return QueryFromJSON(out)
}

// Start marks the query as running.
func (q *Query) Start() {
	q.Status = QueryStatusRunning
	q.UpdatedAt = time.Now().UTC()
}

// Complete marks the query as finished successfully and clears any prior error.
func (q *Query) Complete() {
	q.Status = QueryStatusCompleted
	q.LastError = nil
	q.UpdatedAt = time.Now().UTC()
}

// Fail marks the query as failed and records the failure message.
func (q *Query) Fail(err error) {
	msg := err.Error()
	q.Status = QueryStatusFailed
	q.LastError = &msg
	q.UpdatedAt = time.Now().UTC()
}

// requireObject rejects JSON payloads whose top-level value is not an object.
func requireObject(data []byte) error {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ErrValidation("invalid payload: %v", err)
	}
	if _, ok := probe.(map[string]interface{}); !ok {
		return ErrValidation("payload must be an object")
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Now().UTC()
	}
	return t.UTC()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
