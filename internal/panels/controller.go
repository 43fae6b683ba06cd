// Package panels holds the open/closed state for the editor's fixed set of
// panels plus the help overlay, and maps keyboard chords to state
// transitions. Panels are independent: any subset may be open at once.
package panels

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"smolquery/internal/domain"
	"smolquery/internal/query"
)

// Runner executes a query against the current session.
type Runner interface {
	Execute(ctx context.Context, q *domain.Query, sess *domain.UserSession) (*query.Result, error)
}

// SessionSource supplies the current session for execution.
type SessionSource interface {
	Session() *domain.UserSession
}

// KeyEvent is one keyboard event, key name plus modifier state. Key names
// follow the DOM convention ("r", ",", "/", "Escape").
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// State is a point-in-time snapshot of the controller.
type State struct {
	ResultsOpen  bool
	SchemaOpen   bool
	SettingsOpen bool
	HelpOpen     bool
	IsExecuting  bool
	QueryText    string
	Rows         []map[string]interface{}
	Schema       []query.Column
}

// Controller is the panel-visibility state machine. A flat machine: four
// independent visibility flags plus one busy flag, no hierarchy and no
// cross-panel exclusivity.
type Controller struct {
	mu        sync.Mutex
	results   *domain.Panel
	schema    *domain.Panel
	settings  *domain.Panel
	helpOpen  bool
	queryText string
	executing bool
	rows      []map[string]interface{}
	rowSchema []query.Column

	runner   Runner
	sessions SessionSource
	logger   *slog.Logger
	newID    func() string
}

// NewController creates a controller with all panels closed.
func NewController(runner Runner, sessions SessionSource, logger *slog.Logger) *Controller {
	return &Controller{
		results:  &domain.Panel{ID: "results", Type: domain.PanelTypeResults},
		schema:   &domain.Panel{ID: "schema", Type: domain.PanelTypeSchema},
		settings: &domain.Panel{ID: "settings", Type: domain.PanelTypeSettings},
		runner:   runner,
		sessions: sessions,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// HandleKey applies one keyboard event. The return value reports whether the
// chord was recognized, in which case the caller must suppress the
// platform's default handling. Unrecognized chords change nothing.
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent) bool {
	if ev.Key == "Escape" && !ev.Ctrl && !ev.Alt && !ev.Shift && !ev.Meta {
		c.CloseAll()
		return true
	}

	if !ev.Ctrl || ev.Alt || ev.Meta {
		return false
	}

	switch strings.ToLower(ev.Key) {
	case "r":
		c.Toggle(domain.PanelTypeResults)
	case "s":
		c.Toggle(domain.PanelTypeSchema)
	case ",":
		c.Toggle(domain.PanelTypeSettings)
	case "/":
		c.ToggleHelp()
	case "e":
		if err := c.RunQuery(ctx); err != nil {
			c.logger.Warn("query run failed", "error", err)
		}
	default:
		return false
	}
	return true
}

// Toggle flips the named panel and returns its new visibility. Toggling one
// panel never affects another.
func (c *Controller) Toggle(t domain.PanelType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch t {
	case domain.PanelTypeResults:
		return c.results.Toggle()
	case domain.PanelTypeSchema:
		return c.schema.Toggle()
	case domain.PanelTypeSettings:
		return c.settings.Toggle()
	default:
		return false
	}
}

// ToggleHelp flips the help overlay and returns its new visibility.
func (c *Controller) ToggleHelp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.helpOpen = !c.helpOpen
	return c.helpOpen
}

// CloseAll is a total reset of all four visibility flags, regardless of
// prior state.
func (c *Controller) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results.ClosePanel()
	c.schema.ClosePanel()
	c.settings.ClosePanel()
	c.helpOpen = false
}

// SetQueryText replaces the editor text.
func (c *Controller) SetQueryText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryText = text
}

// RunQuery executes the current editor text. Empty or all-whitespace text is
// a no-op that neither opens the results panel nor touches the busy flag.
// A trigger while a run is already in flight is ignored; re-entrant
// execution is deliberately rejected rather than racing the results field.
// The busy flag is reset on every exit path, including executor failures.
func (c *Controller) RunQuery(ctx context.Context) error {
	c.mu.Lock()
	text := strings.TrimSpace(c.queryText)
	if text == "" {
		c.mu.Unlock()
		return nil
	}
	if c.executing {
		c.mu.Unlock()
		c.logger.Debug("ignoring run trigger while a query is in flight")
		return nil
	}
	c.executing = true
	c.results.OpenPanel()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.executing = false
		c.mu.Unlock()
	}()

	q, err := domain.NewQuery(c.newID(), text)
	if err != nil {
		c.setResults(nil, nil)
		return err
	}

	var sess *domain.UserSession
	if c.sessions != nil {
		sess = c.sessions.Session()
	}

	result, err := c.runner.Execute(ctx, q, sess)
	if err != nil {
		c.setResults(nil, nil)
		return err
	}
	c.setResults(result.Rows, result.Schema)
	return nil
}

func (c *Controller) setResults(rows []map[string]interface{}, schema []query.Column) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = rows
	c.rowSchema = schema
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		ResultsOpen:  c.results.Open,
		SchemaOpen:   c.schema.Open,
		SettingsOpen: c.settings.Open,
		HelpOpen:     c.helpOpen,
		IsExecuting:  c.executing,
		QueryText:    c.queryText,
		Rows:         c.rows,
		Schema:       c.rowSchema,
	}
}
