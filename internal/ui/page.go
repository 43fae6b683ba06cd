package ui

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type shortcut struct {
	Keys   string
	Action string
}

var shortcuts = []shortcut{
	{Keys: "Ctrl+E", Action: "Run query"},
	{Keys: "Ctrl+R", Action: "Toggle results panel"},
	{Keys: "Ctrl+S", Action: "Toggle schema panel"},
	{Keys: "Ctrl+,", Action: "Toggle settings panel"},
	{Keys: "Ctrl+/", Action: "Toggle this help"},
	{Keys: "Esc", Action: "Close all panels"},
}

func editorPage() Node {
	return HTML(
		Lang("en"),
		Attr("data-color-mode", "auto"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text("smolquery")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("preconnect"), Href("https://fonts.googleapis.com")),
			Link(Rel("preconnect"), Href("https://fonts.gstatic.com"), Attr("crossorigin", "")),
			Link(Rel("stylesheet"), Href("https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600&display=swap")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
			Script(Raw(themeInitScript)),
		),
		Body(
			Header(
				Class("topbar"),
				H1(Text("smolquery")),
				Div(
					Class("session"),
					Span(ID("session-label"), Text("…")),
					Button(ID("dev-sign-in"), Class("btn is-hidden"), Text("Sign in")),
					Button(ID("sign-out"), Class("btn is-hidden"), Text("Sign out")),
					Button(ID("theme-toggle"), Class("btn"), Title("Toggle theme"), Text("Theme")),
				),
			),
			Main(
				Class("editor-shell"),
				editorPanel(),
				resultsPanel(),
				schemaPanel(),
				settingsPanel(),
			),
			helpOverlay(),
			Script(Raw(themeToggleScript)),
			Script(Raw(editorScript)),
			Script(Raw(sessionScript)),
		),
	)
}

func editorPanel() Node {
	return Section(
		Class("panel"),
		H2(Text("SQL")),
		Textarea(
			ID("sql-editor"),
			Name("sql"),
			Placeholder("SELECT 1"),
			AutoFocus(),
		),
		Div(
			Class("button-row"),
			Button(ID("run-query"), Class("btn btn-primary"), Text("Run query")),
			Span(ID("run-status")),
		),
		P(Class("hint"), Text("Unauthenticated queries run against the offline mock. Sign in to query BigQuery.")),
	)
}

func resultsPanel() Node {
	return Section(
		ID("panel-results"),
		Class("panel"),
		H2(Text("Results")),
		Div(ID("results-body"), P(Class("hint"), Text("Run a query to see results."))),
	)
}

func schemaPanel() Node {
	return Section(
		ID("panel-schema"),
		Class("panel is-hidden"),
		H2(Text("Schema")),
		Div(ID("schema-body"), P(Class("hint"), Text("Loading catalog…"))),
	)
}

func settingsPanel() Node {
	return Section(
		ID("panel-settings"),
		Class("panel is-hidden"),
		H2(Text("Settings")),
		P(Class("hint"), Text("Theme follows the system by default; use the toggle in the top bar to override.")),
		P(Class("hint"), Text("Press Ctrl+/ for the full list of keyboard shortcuts.")),
	)
}

func helpOverlay() Node {
	items := make([]Node, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, Li(
			Span(Text(s.Action)),
			Kbd(Text(s.Keys)),
		))
	}

	return Div(
		ID("help-overlay"),
		Class("overlay is-hidden"),
		Div(
			Class("panel"),
			H2(Text("Keyboard shortcuts")),
			Ul(Class("shortcut-list"), Group(items)),
			Div(
				Class("button-row"),
				Button(ID("help-close"), Class("btn"), Text("Close")),
			),
		),
	)
}
