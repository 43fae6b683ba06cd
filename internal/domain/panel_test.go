package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelFromJSON_Defaults(t *testing.T) {
	t.Parallel()

	p, err := PanelFromJSON([]byte(`{"id":"p1","type":"results"}`))

	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, PanelTypeResults, p.Type)
	assert.True(t, p.Open, "open defaults to true")
	assert.Equal(t, 0, p.Order)
	assert.Nil(t, p.Title)
}

func TestPanelFromJSON_Order(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{name: "explicit", payload: `{"id":"p","type":"schema","order":3}`, want: 3},
		{name: "zero", payload: `{"id":"p","type":"schema","order":0}`, want: 0},
		{name: "negative", payload: `{"id":"p","type":"schema","order":-2}`, want: -2},
		{name: "non-numeric falls back", payload: `{"id":"p","type":"schema","order":"first"}`, want: 0},
		{name: "absent", payload: `{"id":"p","type":"schema"}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := PanelFromJSON([]byte(tt.payload))

			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Order)
		})
	}
}

func TestPanelFromJSON_RejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`"panel"`, `7`, `[]`, `null`} {
		_, err := PanelFromJSON([]byte(payload))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "payload %s", payload)
	}
}

func TestPanel_Toggle(t *testing.T) {
	t.Parallel()

	p := &Panel{ID: "p1", Type: PanelTypeSettings, Open: true}

	assert.False(t, p.Toggle())
	assert.False(t, p.Open)
	assert.True(t, p.Toggle())
	assert.True(t, p.Open, "two toggles restore the original state")
}

func TestPanel_OpenCloseIdempotent(t *testing.T) {
	t.Parallel()

	p := &Panel{ID: "p1", Type: PanelTypeConsole}

	p.OpenPanel()
	p.OpenPanel()
	assert.True(t, p.Open)

	p.ClosePanel()
	p.ClosePanel()
	assert.False(t, p.Open)
}

func TestPanel_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	p := &Panel{ID: "p1", Type: PanelTypeSchema, Title: ptrStr("Schema"), Open: false, Order: -1}

	raw, err := p.ToJSON()
	require.NoError(t, err)

	got, err := PanelFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
