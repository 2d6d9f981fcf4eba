package server

// viewerPage shows the live gauge and forwards pointer events over /ws.
const viewerPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>arcgauge</title>
<style>
body { margin: 0; background: #212121; color: #fafafa; font-family: Helvetica, Arial, sans-serif; }
#gauge { display: inline-block; margin: 24px; }
#status { margin: 0 24px; font-size: 12px; color: #9e9e9e; }
</style>
</head>
<body>
<div id="gauge"></div>
<div id="status">connecting</div>
<script>
(function () {
  var gauge = document.getElementById("gauge");
  var status = document.getElementById("status");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  function send(type, ev) {
    if (ws.readyState !== WebSocket.OPEN) { return; }
    var msg = { type: type };
    if (ev) {
      var box = gauge.getBoundingClientRect();
      msg.x = ev.clientX - box.left;
      msg.y = ev.clientY - box.top;
    }
    ws.send(JSON.stringify(msg));
  }
  ws.onopen = function () { status.textContent = "live"; };
  ws.onclose = function () { status.textContent = "disconnected"; };
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "frame") {
      gauge.innerHTML = msg.svg;
    } else if (msg.type === "click") {
      status.textContent = "clicked at " + Math.round(msg.x || 0) + ", " + Math.round(msg.y || 0);
    }
  };
  gauge.addEventListener("mousemove", function (ev) { send("pointermove", ev); });
  gauge.addEventListener("mouseleave", function () { send("pointerleave"); });
  gauge.addEventListener("click", function (ev) { send("click", ev); });
})();
</script>
</body>
</html>
`
