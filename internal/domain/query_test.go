package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }

func TestNewQuery(t *testing.T) {
	t.Parallel()

	q, err := NewQuery("q1", "SELECT 1")

	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, "SELECT 1", q.SQL)
	assert.Equal(t, QueryStatusDraft, q.Status)
	assert.Nil(t, q.LastError)
	assert.False(t, q.CreatedAt.IsZero())
}

func TestNewQuery_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		sql     string
		wantErr string
	}{
		{name: "missing id", id: "", sql: "SELECT 1", wantErr: "id is required"},
		{name: "missing sql", id: "q1", sql: "", wantErr: "sql is required"},
		{name: "whitespace sql", id: "q1", sql: "   ", wantErr: "sql is required"},
		{name: "both missing", id: "", sql: "", wantErr: "id is required, sql is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewQuery(tt.id, tt.sql)

			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Message)
		})
	}
}

func TestQuery_Validate_AggregatesInOrder(t *testing.T) {
	t.Parallel()

	q := &Query{}
	err := q.Validate()

	require.Error(t, err)
	// id reported before sql, joined with ", "
	assert.Equal(t, "id is required, sql is required", err.Error())
}

func TestQuery_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	q := &Query{
		ID:        "q-42",
		SQL:       "SELECT * FROM numbers",
		Name:      ptrStr("my query"),
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
		Status:    QueryStatusCompleted,
		LastError: nil,
	}

	raw, err := q.ToJSON()
	require.NoError(t, err)

	got, err := QueryFromJSON(raw)
	require.NoError(t, err)

	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, q.SQL, got.SQL)
	assert.Equal(t, q.Name, got.Name)
	assert.True(t, q.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, q.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, q.Status, got.Status)
	assert.Nil(t, got.LastError)
}

func TestQuery_JSONRoundTrip_ExplicitNullLastError(t *testing.T) {
	t.Parallel()

	q, err := NewQuery("q1", "SELECT 1")
	require.NoError(t, err)

	raw, err := q.ToJSON()
	require.NoError(t, err)
	// The wire form must carry an explicit null, not omit the field.
	assert.Contains(t, string(raw), `"lastError":null`)

	got, err := QueryFromJSON(raw)
	require.NoError(t, err)
	assert.Nil(t, got.LastError)
}

func TestQuery_JSONRoundTrip_LastErrorPreserved(t *testing.T) {
	t.Parallel()

	q, err := NewQuery("q1", "SELECT 1")
	require.NoError(t, err)
	q.Fail(assert.AnError)

	raw, err := q.ToJSON()
	require.NoError(t, err)

	got, err := QueryFromJSON(raw)
	require.NoError(t, err)
	require.NotNil(t, got.LastError)
	assert.Equal(t, assert.AnError.Error(), *got.LastError)
	assert.Equal(t, QueryStatusFailed, got.Status)
}

func TestQueryFromJSON_RejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`"hello"`, `42`, `[1,2]`, `null`, `true`} {
		_, err := QueryFromJSON([]byte(payload))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "payload %s", payload)
	}
}

func TestQueryFromJSON_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	_, err := QueryFromJSON([]byte(`{"id":"q1","sql":"SELECT 1","status":"paused"}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "paused")
}

func TestQuery_Clone(t *testing.T) {
	t.Parallel()

	q, err := NewQuery("q1", "SELECT 1")
	require.NoError(t, err)
	q.Fail(assert.AnError)

	clone, err := q.Clone(map[string]interface{}{"sql": "SELECT 2"})
	require.NoError(t, err)

	// Overridden field changes; everything else is preserved exactly.
	assert.Equal(t, "SELECT 2", clone.SQL)
	assert.Equal(t, q.ID, clone.ID)
	assert.Equal(t, q.Status, clone.Status)
	assert.Equal(t, q.LastError, clone.LastError)

	// The clone shares no state with the original.
	clone.Complete()
	assert.Equal(t, QueryStatusFailed, q.Status)
}

func TestQuery_Clone_OverridesAreValidated(t *testing.T) {
	t.Parallel()

	q, err := NewQuery("q1", "SELECT 1")
	require.NoError(t, err)

	_, err = q.Clone(map[string]interface{}{"sql": ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sql is required", verr.Message)
}

func TestQuery_Lifecycle(t *testing.T) {
	t.Parallel()

	q, err := NewQuery("q1", "SELECT 1")
	require.NoError(t, err)
	before := q.UpdatedAt

	q.Start()
	assert.Equal(t, QueryStatusRunning, q.Status)
	assert.False(t, q.UpdatedAt.Before(before))

	q.Complete()
	assert.Equal(t, QueryStatusCompleted, q.Status)
	assert.Nil(t, q.LastError)

	q.Fail(assert.AnError)
	assert.Equal(t, QueryStatusFailed, q.Status)
	require.NotNil(t, q.LastError)
	assert.Equal(t, assert.AnError.Error(), *q.LastError)
}
