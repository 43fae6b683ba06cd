package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		colType string
		in      interface{}
		want    interface{}
	}{
		{name: "integer", colType: "INTEGER", in: "42", want: int64(42)},
		{name: "int64 alias", colType: "INT64", in: "-7", want: int64(-7)},
		{name: "empty integer is null", colType: "INTEGER", in: "", want: nil},
		{name: "nil integer is null", colType: "INTEGER", in: nil, want: nil},
		{name: "float", colType: "FLOAT", in: "3.5", want: 3.5},
		{name: "float64 alias", colType: "FLOAT64", in: "1e3", want: 1000.0},
		{name: "empty float is null", colType: "FLOAT", in: "", want: nil},
		{name: "bool true literal", colType: "BOOLEAN", in: "true", want: true},
		{name: "bool native", colType: "BOOL", in: true, want: true},
		{name: "bool anything else is false", colType: "BOOLEAN", in: "TRUE", want: false},
		{name: "bool false", colType: "BOOLEAN", in: "false", want: false},
		{name: "timestamp epoch seconds", colType: "TIMESTAMP", in: "1.7005632E9", want: "2023-11-21T10:40:00Z"},
		{name: "timestamp absent is null", colType: "TIMESTAMP", in: nil, want: nil},
		{name: "unknown type passes through", colType: "STRING", in: "abc", want: "abc"},
		{name: "lowercase type name", colType: "integer", in: "5", want: int64(5)},
		{name: "unparseable integer passes through", colType: "INTEGER", in: "abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, convertValue(tt.colType, tt.in))
		})
	}
}

func TestInferSchema(t *testing.T) {
	t.Parallel()

	row := map[string]interface{}{"a": 1, "b": "x", "c": true, "d": 2.5}

	schema := inferSchema([]string{"a", "b", "c", "d"}, row)

	assert.Equal(t, []Column{
		{Name: "a", Type: "integer"},
		{Name: "b", Type: "string"},
		{Name: "c", Type: "boolean"},
		{Name: "d", Type: "float"},
	}, schema)
}

func TestInferSchema_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, inferSchema(nil, nil))
}
