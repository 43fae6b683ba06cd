package ui

const themeInitScript = `(function(){
  var root=document.documentElement;
  var media=window.matchMedia('(prefers-color-scheme: dark)');
  function normalize(mode){
    return mode==='light'||mode==='dark'||mode==='auto'?mode:'auto';
  }
  function apply(mode){
    var selected=normalize(mode);
    var resolved=selected==='auto'?(media.matches?'dark':'light'):selected;
    root.setAttribute('data-color-mode',selected);
    root.setAttribute('data-theme',resolved);
  }
  var stored='auto';
  try {
    stored=normalize(localStorage.getItem('smolquery-theme')||'auto');
  } catch (_) {}
  apply(stored);
  window.__smolqueryThemeApply=apply;
})();`

const themeToggleScript = `(function(){
  var root=document.documentElement;
  var media=window.matchMedia('(prefers-color-scheme: dark)');
  var apply=window.__smolqueryThemeApply||function(mode){
    var selected=mode==='light'||mode==='dark'||mode==='auto'?mode:'auto';
    var resolved=selected==='auto'?(media.matches?'dark':'light'):selected;
    root.setAttribute('data-color-mode',selected);
    root.setAttribute('data-theme',resolved);
  };

  function resolvedMode(){
    var selected=root.getAttribute('data-color-mode')||'auto';
    return selected==='auto'?(media.matches?'dark':'light'):selected;
  }

  function setMode(mode){
    apply(mode);
    try { localStorage.setItem('smolquery-theme', mode); } catch (_) {}
  }

  var toggle=document.getElementById('theme-toggle');
  if(toggle){
    toggle.addEventListener('click', function(){
      setMode(resolvedMode()==='dark'?'light':'dark');
    });
  }

  var onSystemThemeChange=function(){
    if((root.getAttribute('data-color-mode')||'auto')==='auto'){
      apply('auto');
    }
  };
  if(media.addEventListener){
    media.addEventListener('change', onSystemThemeChange);
  } else if(media.addListener){
    media.addListener(onSystemThemeChange);
  }
})();`
