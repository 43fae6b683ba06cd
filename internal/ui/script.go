package ui

// editorScript drives the editor page: panel toggles, the keyboard chords,
// and query execution against the /v1 API. The chord table mirrors the
// server-side panel controller: plain Ctrl plus a lowercase key, Alt and
// Meta disqualify, Escape (unmodified) closes everything.
const editorScript = `(function(){
  var panels={
    results:document.getElementById('panel-results'),
    schema:document.getElementById('panel-schema'),
    settings:document.getElementById('panel-settings')
  };
  var help=document.getElementById('help-overlay');
  var editor=document.getElementById('sql-editor');
  var status=document.getElementById('run-status');
  var running=false;

  function setOpen(el,open){
    if(!el){ return; }
    el.classList.toggle('is-hidden', !open);
  }
  function isOpen(el){
    return !!el && !el.classList.contains('is-hidden');
  }
  function toggle(name){
    setOpen(panels[name], !isOpen(panels[name]));
  }
  function closeAll(){
    setOpen(panels.results,false);
    setOpen(panels.schema,false);
    setOpen(panels.settings,false);
    setOpen(help,false);
  }

  function renderResults(body){
    var target=document.getElementById('results-body');
    if(!target){ return; }
    if(body.error){
      target.innerHTML='';
      var pre=document.createElement('pre');
      pre.className='query-error';
      pre.textContent=body.error;
      target.appendChild(pre);
      return;
    }
    var rows=body.results||[];
    var schema=body.schema||[];
    var cols=schema.map(function(c){ return c.name; });
    if(cols.length===0 && rows.length>0){
      cols=Object.keys(rows[0]);
    }
    var table=document.createElement('table');
    var thead=table.createTHead();
    var hr=thead.insertRow();
    cols.forEach(function(c){
      var th=document.createElement('th');
      th.textContent=c;
      hr.appendChild(th);
    });
    var tbody=table.createTBody();
    rows.forEach(function(row){
      var tr=tbody.insertRow();
      cols.forEach(function(c){
        var v=row[c];
        tr.insertCell().textContent=(v===null||v===undefined)?'':String(v);
      });
    });
    target.innerHTML='';
    target.appendChild(table);
    if(status){
      status.textContent=rows.length+' row(s)'+(body.jobId?(' · '+body.jobId):'');
    }
  }

  function runQuery(){
    if(running){ return; }
    var sql=editor?editor.value:'';
    if(!sql || !sql.trim()){ return; }
    running=true;
    setOpen(panels.results,true);
    if(status){ status.textContent='Running…'; }
    fetch('/v1/query',{
      method:'POST',
      headers:{'Content-Type':'application/json'},
      body:JSON.stringify({query:sql})
    }).then(function(resp){
      return resp.json();
    }).then(function(body){
      renderResults(body);
      if(body.error && status){ status.textContent='Failed'; }
    }).catch(function(err){
      renderResults({error:String(err)});
      if(status){ status.textContent='Failed'; }
    }).finally(function(){
      running=false;
    });
  }

  function loadSchema(){
    var target=document.getElementById('schema-body');
    if(!target){ return; }
    fetch('/v1/schema').then(function(resp){
      return resp.json();
    }).then(function(body){
      var list=document.createElement('ul');
      (body.tables||[]).forEach(function(t){
        var li=document.createElement('li');
        li.textContent=t.dataset+'.'+t.table;
        list.appendChild(li);
      });
      target.innerHTML='';
      target.appendChild(list);
    }).catch(function(){});
  }

  document.addEventListener('keydown', function(e){
    if(e.key==='Escape' && !e.ctrlKey && !e.altKey && !e.shiftKey && !e.metaKey){
      closeAll();
      return;
    }
    if(!e.ctrlKey || e.altKey || e.metaKey){ return; }
    switch(e.key.toLowerCase()){
      case 'r': e.preventDefault(); toggle('results'); break;
      case 's': e.preventDefault(); toggle('schema'); break;
      case ',': e.preventDefault(); toggle('settings'); break;
      case '/': e.preventDefault(); setOpen(help, !isOpen(help)); break;
      case 'e': e.preventDefault(); runQuery(); break;
    }
  });

  var runBtn=document.getElementById('run-query');
  if(runBtn){ runBtn.addEventListener('click', runQuery); }
  document.querySelectorAll('[data-toggle-panel]').forEach(function(btn){
    btn.addEventListener('click', function(){
      toggle(btn.getAttribute('data-toggle-panel'));
    });
  });
  var helpClose=document.getElementById('help-close');
  if(helpClose){ helpClose.addEventListener('click', function(){ setOpen(help,false); }); }

  loadSchema();
})();`

const sessionScript = `(function(){
  var label=document.getElementById('session-label');
  var signOut=document.getElementById('sign-out');
  var devSignIn=document.getElementById('dev-sign-in');

  function refresh(){
    fetch('/v1/auth/session').then(function(resp){
      return resp.json();
    }).then(function(body){
      if(!label){ return; }
      if(body.authenticated){
        label.textContent='Signed in'+(body.userId?(' as '+body.userId):'');
        if(signOut){ signOut.classList.remove('is-hidden'); }
        if(devSignIn){ devSignIn.classList.add('is-hidden'); }
      } else {
        label.textContent='Not signed in (mock results)';
        if(signOut){ signOut.classList.add('is-hidden'); }
        if(devSignIn){ devSignIn.classList.remove('is-hidden'); }
      }
    }).catch(function(){});
  }

  if(signOut){
    signOut.addEventListener('click', function(){
      fetch('/v1/auth/signout',{method:'POST'}).then(refresh);
    });
  }
  if(devSignIn){
    devSignIn.addEventListener('click', function(){
      fetch('/v1/auth/dev',{method:'POST',headers:{'Content-Type':'application/json'},body:'{}'}).then(refresh);
    });
  }

  refresh();
})();`
