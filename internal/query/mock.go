package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"smolquery/internal/domain"
)

var (
	selectPattern      = regexp.MustCompile(`(?i)^\s*select\b`)
	fromNumbersPattern = regexp.MustCompile(`(?i)from\s+numbers`)
)

// executeMock produces a deterministic offline result set so the editor
// works without an authenticated session. Job ids are synthesized as
// "local-<query id>".
func (e *Executor) executeMock(ctx context.Context, q *domain.Query) (*Result, error) {
	if e.mockDelay > 0 {
		select {
		case <-time.After(e.mockDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	jobID := "local-" + q.ID

	if !selectPattern.MatchString(q.SQL) {
		return &Result{JobID: jobID, Rows: []map[string]interface{}{}, Schema: []Column{}}, nil
	}

	if fromNumbersPattern.MatchString(q.SQL) {
		rows := []map[string]interface{}{
			{"n": 1},
			{"n": 2},
			{"n": 3},
		}
		return &Result{JobID: jobID, Rows: rows, Schema: inferSchema([]string{"n"}, rows[0])}, nil
	}

	row := map[string]interface{}{
		"raw_sql": strings.TrimSpace(q.SQL),
		"ranAt":   e.now().UTC().Format(time.RFC3339),
	}
	return &Result{
		JobID:  jobID,
		Rows:   []map[string]interface{}{row},
		Schema: inferSchema([]string{"raw_sql", "ranAt"}, row),
	}, nil
}

// inferSchema derives schema entries from the keys of the first row, in the
// given key order, typed by the runtime type of each value.
func inferSchema(keys []string, row map[string]interface{}) []Column {
	schema := make([]Column, 0, len(keys))
	for _, key := range keys {
		schema = append(schema, Column{Name: key, Type: runtimeType(row[key])})
	}
	return schema
}

func runtimeType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int32, int64:
		return "integer"
	case float32, float64:
		return "float"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}
