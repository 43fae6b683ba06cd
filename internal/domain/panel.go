package domain

import "encoding/json"

// PanelType names one of the fixed UI regions.
type PanelType string

// Known panel types.
const (
	PanelTypeResults  PanelType = "results"
	PanelTypeSchema   PanelType = "schema"
	PanelTypeSettings PanelType = "settings"
	PanelTypeConsole  PanelType = "console"
)

// ValidPanelType reports whether t is a known panel type.
func ValidPanelType(t PanelType) bool {
	switch t {
	case PanelTypeResults, PanelTypeSchema, PanelTypeSettings, PanelTypeConsole:
		return true
	}
	return false
}

// Panel is a named, independently toggleable UI region: a visibility flag
// plus identity and ordering.
type Panel struct {
	ID    string
	Type  PanelType
	Title *string
	Open  bool
	Order int
}

type panelDoc struct {
	ID    string      `json:"id"`
	Type  PanelType   `json:"type"`
	Title *string     `json:"title,omitempty"`
	Open  *bool       `json:"open"`
	Order interface{} `json:"order"`
}

// PanelFromJSON parses a Panel from its JSON wire form. A payload that is not
// a JSON object is rejected with a ValidationError. Open defaults to true
// when absent; Order defaults to 0 when absent or non-numeric, and accepts
// negative and zero values.
func PanelFromJSON(data []byte) (*Panel, error) {
	if err := requireObject(data); err != nil {
		return nil, err
	}

	var doc panelDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrValidation("invalid panel payload: %v", err)
	}

	p := &Panel{
		ID:    doc.ID,
		Type:  doc.Type,
		Title: doc.Title,
		Open:  true,
	}
	if doc.Open != nil {
		p.Open = *doc.Open
	}
	if n, ok := doc.Order.(float64); ok {
		p.Order = int(n)
	}
	return p, nil
}

// ToJSON serializes the panel. Serialization is total: every field is
// emitted, so FromJSON(ToJSON(p)) reproduces p exactly.
func (p *Panel) ToJSON() ([]byte, error) {
	open := p.Open
	return json.Marshal(panelDoc{
		ID:    p.ID,
		Type:  p.Type,
		Title: p.Title,
		Open:  &open,
		Order: p.Order,
	})
}

// Toggle flips the visibility flag and returns the new state.
func (p *Panel) Toggle() bool {
	p.Open = !p.Open
	return p.Open
}

// OpenPanel makes the panel visible. Idempotent.
func (p *Panel) OpenPanel() { p.Open = true }

// ClosePanel hides the panel. Idempotent.
func (p *Panel) ClosePanel() { p.Open = false }
