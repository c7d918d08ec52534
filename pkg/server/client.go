package server

import "net/http"

// handleIndex serves the embedded demo page. The page is a thin client:
// it reports the document's inline overflow styles in its hello, applies
// incoming patches with style.setProperty/removeProperty, and sends user
// actions as events. All state lives on the server.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>scrollock demo</title>
<style>
  body { font-family: sans-serif; margin: 0; }
  .toolbar { position: fixed; top: 0; left: 0; right: 0; padding: 12px;
             background: #1f2430; color: #fff; display: flex; gap: 8px;
             align-items: center; flex-wrap: wrap; }
  .toolbar button { padding: 6px 12px; }
  .filler { padding: 80px 24px 24px; width: 250vw; min-height: 250vh; }
  .filler p { max-width: 40em; }
  #status { margin-left: auto; font-size: 12px; opacity: .8; }
</style>
</head>
<body>
<div class="toolbar">
  <button data-action="hide">Hide</button>
  <button data-action="restore">Restore</button>
  <button data-action="hide-x">Hide X</button>
  <button data-action="restore-x">Restore X</button>
  <button data-action="hide-y">Hide Y</button>
  <button data-action="restore-y">Restore Y</button>
  <select id="axis">
    <option>overflow</option>
    <option>overflow-x</option>
    <option>overflow-y</option>
  </select>
  <select id="value">
    <option value="">unset</option>
    <option>auto</option>
    <option>hidden</option>
    <option>scroll</option>
    <option>visible</option>
  </select>
  <button id="apply">Set</button>
  <span id="status">connecting…</span>
</div>
<div class="filler">
  <h1>scrollock</h1>
  <p>This page mirrors its document styles on the server. Every button
     sends an event; the style change you see comes back as a patch.</p>
  <p>The page is deliberately wider and taller than the viewport so the
     effect of each overflow value is visible. Open a second tab to watch
     sessions stay independent, or reload this one to watch a resume.</p>
</div>
<script>
(function () {
  var status = document.getElementById('status');
  var doc = document.documentElement;
  var props = ['overflow', 'overflow-x', 'overflow-y'];
  var ws;

  function currentStyles() {
    var styles = {};
    props.forEach(function (p) {
      var v = doc.style.getPropertyValue(p);
      if (v !== '') styles[p] = v;
    });
    return styles;
  }

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    ws = new WebSocket(proto + '//' + location.host + '/ws');

    ws.onopen = function () {
      ws.send(JSON.stringify({
        type: 'hello',
        session: sessionStorage.getItem('scrollock-session') || '',
        styles: currentStyles()
      }));
    };

    ws.onmessage = function (e) {
      var msg = JSON.parse(e.data);
      switch (msg.type) {
      case 'hello':
        sessionStorage.setItem('scrollock-session', msg.session);
        status.textContent = (msg.resumed ? 'resumed ' : 'session ') + msg.session.slice(0, 8);
        break;
      case 'patch':
        (msg.patches || []).forEach(function (p) {
          if (p.op === 'remove') {
            doc.style.removeProperty(p.prop);
          } else {
            doc.style.setProperty(p.prop, p.value);
          }
        });
        break;
      case 'ping':
        ws.send(JSON.stringify({ type: 'pong' }));
        break;
      }
    };

    ws.onclose = function () {
      status.textContent = 'disconnected, retrying…';
      setTimeout(connect, 1000);
    };
  }

  document.querySelectorAll('[data-action]').forEach(function (btn) {
    btn.addEventListener('click', function () {
      ws.send(JSON.stringify({ type: 'event', action: btn.dataset.action }));
    });
  });

  document.getElementById('apply').addEventListener('click', function () {
    ws.send(JSON.stringify({
      type: 'event',
      action: 'set',
      axis: document.getElementById('axis').value,
      value: document.getElementById('value').value
    }));
  });

  connect();
})();
</script>
</body>
</html>
`
