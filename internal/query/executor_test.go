package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smolquery/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptrStr(s string) *string { return &s }

// fakeClient scripts the external query service.
type fakeClient struct {
	data    *TableData
	err     error
	gotSQL  string
	gotProj string
}

func (f *fakeClient) Query(_ context.Context, sqlText, projectID string) (*TableData, error) {
	f.gotSQL = sqlText
	f.gotProj = projectID
	return f.data, f.err
}

func factoryFor(c Client) ClientFactory {
	return func(context.Context, string) (Client, error) { return c, nil }
}

func authedSession() *domain.UserSession {
	return &domain.UserSession{AccessToken: ptrStr("tok")}
}

func mustQuery(t *testing.T, sqlText string) *domain.Query {
	t.Helper()
	q, err := domain.NewQuery("q1", sqlText)
	require.NoError(t, err)
	return q
}

func newTestExecutor(f ClientFactory) *Executor {
	return NewExecutor(f, "test-project", testLogger(), WithMockDelay(0))
}

func TestExecute_InvalidQueryFailsBeforeStatusMutation(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := &domain.Query{ID: "q1"} // no SQL

	_, err := e.Execute(context.Background(), q, nil)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.QueryStatus(""), q.Status, "status untouched")
}

func TestExecute_Mock_NonSelect(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := mustQuery(t, "DROP TABLE x")

	result, err := e.Execute(context.Background(), q, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Schema)
	assert.Equal(t, "local-q1", result.JobID)
	assert.Equal(t, domain.QueryStatusCompleted, q.Status)
}

func TestExecute_Mock_FromNumbers(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := mustQuery(t, "SELECT * FROM numbers")

	result, err := e.Execute(context.Background(), q, nil)

	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"n": 1}, {"n": 2}, {"n": 3}}, result.Rows)
	assert.Equal(t, []Column{{Name: "n", Type: "integer"}}, result.Schema)
	assert.Equal(t, domain.QueryStatusCompleted, q.Status)
}

func TestExecute_Mock_FromNumbersCaseInsensitive(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := mustQuery(t, "  select n FROM Numbers LIMIT 10")

	result, err := e.Execute(context.Background(), q, nil)

	require.NoError(t, err)
	assert.Len(t, result.Rows, 3)
}

func TestExecute_Mock_GenericSelect(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := mustQuery(t, "  SELECT 1  ")

	result, err := e.Execute(context.Background(), q, nil)

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "SELECT 1", result.Rows[0]["raw_sql"], "sql is trimmed")
	assert.NotEmpty(t, result.Rows[0]["ranAt"])
	assert.Equal(t, []Column{
		{Name: "raw_sql", Type: "string"},
		{Name: "ranAt", Type: "string"},
	}, result.Schema)
}

func TestExecute_Mock_UsedForExpiredSession(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := mustQuery(t, "SELECT 1")
	sess := domain.NewUserSession() // signed out

	result, err := e.Execute(context.Background(), q, sess)

	require.NoError(t, err)
	assert.Equal(t, "local-q1", result.JobID)
}

func TestExecute_Remote_Success(t *testing.T) {
	t.Parallel()

	client := &fakeClient{data: &TableData{
		JobID: "job-1",
		Schema: []Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "score", Type: "FLOAT"},
			{Name: "active", Type: "BOOLEAN"},
			{Name: "seen_at", Type: "TIMESTAMP"},
			{Name: "label", Type: "STRING"},
		},
		Rows: [][]interface{}{
			{"42", "3.14", "true", "1.7005632E9", "hello"},
			{"", "", "false", nil, "world"},
		},
	}}
	e := newTestExecutor(factoryFor(client))
	q := mustQuery(t, "SELECT * FROM t")

	result, err := e.Execute(context.Background(), q, authedSession())

	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t", client.gotSQL)
	assert.Equal(t, "test-project", client.gotProj)
	assert.Equal(t, "job-1", result.JobID)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, map[string]interface{}{
		"id":      int64(42),
		"score":   3.14,
		"active":  true,
		"seen_at": "2023-11-21T10:40:00Z",
		"label":   "hello",
	}, result.Rows[0])
	assert.Equal(t, map[string]interface{}{
		"id":      nil,
		"score":   nil,
		"active":  false,
		"seen_at": nil,
		"label":   "world",
	}, result.Rows[1])

	assert.Equal(t, domain.QueryStatusCompleted, q.Status)
	assert.Nil(t, q.LastError)
}

func TestExecute_Remote_FailureWrapsAndPropagates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: errors.New("quota exceeded")}
	e := newTestExecutor(factoryFor(client))
	q := mustQuery(t, "SELECT 1")

	_, err := e.Execute(context.Background(), q, authedSession())

	require.Error(t, err)
	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "execution failed: quota exceeded", execErr.Message)

	assert.Equal(t, domain.QueryStatusFailed, q.Status)
	require.NotNil(t, q.LastError)
	assert.Contains(t, *q.LastError, "quota exceeded")
}

func TestExecute_Remote_NoClientFactory(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(nil)
	q := mustQuery(t, "SELECT 1")

	_, err := e.Execute(context.Background(), q, authedSession())

	require.Error(t, err)
	assert.Equal(t, "User not authenticated", err.Error())
	assert.Equal(t, domain.QueryStatusFailed, q.Status)
}
