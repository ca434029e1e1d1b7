package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/flobbe/wordclock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"join": strings.Join,
	"qualityClass": func(q int) string {
		switch {
		case q >= 80:
			return "good"
		case q >= 40:
			return "fair"
		}
		return "poor"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Word Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.good { color: green; font-weight: bold; }
.fair { color: orange; }
.poor { color: red; }
.connected { color: green; }
.disconnected { color: red; }
#matrix { background: #111; image-rendering: pixelated; width: 100%; }
</style>
</head>
<body>
<h1>Word Clock</h1>
{{if .Preview}}
<canvas id="matrix" width="{{.Config.Width}}" height="{{.Config.Height}}"></canvas>
{{end}}

<h2>Display</h2>
<table>
<tr><th>State</th><td id="display-state">{{stateOrUnknown .Display.State}}</td></tr>
<tr><th>Time</th><td>{{printf "%02d:%02d:%02d" .Display.Hour .Display.Minute .Display.Second}}</td></tr>
<tr><th>Phrase</th><td>{{join .Display.Words " "}}</td></tr>
<tr><th>Seconds</th><td>{{.Display.SecondsMode}}</td></tr>
<tr><th>Brightness</th><td>{{.Display.Brightness}}</td></tr>
</table>

<h2>DCF77</h2>
<table>
<tr><th>Quality</th><td class="{{qualityClass .Signal.Quality}}">{{.Signal.Quality}}%</td></tr>
<tr><th>Synced</th><td>{{if .Signal.Synced}}yes (bit {{.Signal.BitIndex}}){{else}}no{{end}}</td></tr>
<tr><th>Last bit</th><td>{{.Signal.LastBit}}</td></tr>
<tr><th>Pulses</th><td>{{.Signal.Counts.Zeros}} zeros, {{.Signal.Counts.Ones}} ones, {{.Signal.Counts.Noise}} noise</td></tr>
<tr><th>Minute markers</th><td>{{.Signal.Counts.MinuteMarkers}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Driver</th><td>{{.Config.Driver}} ({{.Config.Width}}x{{.Config.Height}})</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Preview}}
<script>
(function() {
  var canvas = document.getElementById("matrix");
  var ctx = canvas.getContext("2d");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/frames");

  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.width) {
      canvas.width = msg.width;
      canvas.height = msg.height;
      return;
    }
    var rgb = atob(msg.rgb);
    var img = ctx.createImageData(canvas.width, canvas.height);
    for (var i = 0, j = 0; i < rgb.length; i += 3, j += 4) {
      img.data[j] = rgb.charCodeAt(i);
      img.data[j + 1] = rgb.charCodeAt(i + 1);
      img.data[j + 2] = rgb.charCodeAt(i + 2);
      img.data[j + 3] = 255;
    }
    ctx.putImageData(img, 0, 0);
  };
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, preview bool) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime  time.Duration
		Preview bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Preview:  preview,
	}
	indexTmpl.Execute(w, data)
}
