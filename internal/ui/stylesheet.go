package ui

const appStylesheet = `:root{
  --bg:#ffffff;
  --fg:#1f2328;
  --muted:#656d76;
  --border:#d0d7de;
  --panel:#f6f8fa;
  --accent:#0969da;
  --danger:#cf222e;
}
[data-theme="dark"]{
  --bg:#0d1117;
  --fg:#e6edf3;
  --muted:#8b949e;
  --border:#30363d;
  --panel:#161b22;
  --accent:#2f81f7;
  --danger:#f85149;
}
*{box-sizing:border-box;}
body{
  margin:0;
  font-family:Inter,system-ui,sans-serif;
  background:var(--bg);
  color:var(--fg);
}
.topbar{
  display:flex;
  justify-content:space-between;
  align-items:center;
  padding:0.75rem 1rem;
  border-bottom:1px solid var(--border);
}
.topbar h1{font-size:1.1rem;margin:0;}
.topbar .session{display:flex;align-items:center;gap:0.5rem;color:var(--muted);font-size:0.85rem;}
.editor-shell{display:flex;flex-direction:column;gap:1rem;padding:1rem;max-width:70rem;margin:0 auto;}
.panel{
  border:1px solid var(--border);
  border-radius:6px;
  background:var(--panel);
  padding:0.75rem 1rem;
}
.panel h2{font-size:0.95rem;margin:0 0 0.5rem;}
.panel .hint{color:var(--muted);font-size:0.8rem;}
.is-hidden{display:none;}
textarea#sql-editor{
  width:100%;
  min-height:10rem;
  font-family:ui-monospace,monospace;
  font-size:0.9rem;
  border:1px solid var(--border);
  border-radius:6px;
  background:var(--bg);
  color:var(--fg);
  padding:0.5rem;
  resize:vertical;
}
.button-row{display:flex;gap:0.5rem;margin-top:0.5rem;align-items:center;}
.btn{
  border:1px solid var(--border);
  border-radius:6px;
  background:var(--panel);
  color:var(--fg);
  padding:0.35rem 0.8rem;
  cursor:pointer;
  font-size:0.85rem;
}
.btn-primary{background:var(--accent);border-color:var(--accent);color:#fff;}
table{border-collapse:collapse;width:100%;font-size:0.85rem;}
th,td{border:1px solid var(--border);padding:0.3rem 0.5rem;text-align:left;}
th{background:var(--panel);}
pre.query-error{color:var(--danger);white-space:pre-wrap;margin:0;}
#run-status{color:var(--muted);font-size:0.8rem;}
.overlay{
  position:fixed;
  inset:0;
  background:rgba(0,0,0,0.4);
  display:flex;
  align-items:center;
  justify-content:center;
}
.overlay .panel{max-width:26rem;width:100%;background:var(--bg);}
kbd{
  border:1px solid var(--border);
  border-bottom-width:2px;
  border-radius:4px;
  padding:0 0.3rem;
  font-size:0.8rem;
  background:var(--panel);
}
.shortcut-list{list-style:none;margin:0;padding:0;display:grid;gap:0.4rem;}
.shortcut-list li{display:flex;justify-content:space-between;gap:1rem;}
#panel-schema ul{margin:0;padding-left:1.2rem;font-family:ui-monospace,monospace;font-size:0.85rem;}
`
