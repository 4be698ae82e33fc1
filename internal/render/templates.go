package render

const tmplPage = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Menu.Title}} · machinedash</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#f4f5f7;color:#1f2328;font-size:14px;line-height:1.5}
.main{display:flex;min-height:100vh}
.sidebar{width:230px;background:#1f2937;color:#e5e7eb;padding:16px 12px;flex-shrink:0}
.sidebar h2{font-size:16px;margin-bottom:12px}
.sidebar h3{font-size:11px;text-transform:uppercase;letter-spacing:.06em;color:#9ca3af;margin:14px 0 6px}
.sidebar form{margin:0}
.sidebar button{display:block;width:100%;text-align:left;background:none;border:0;color:#e5e7eb;padding:5px 8px;border-radius:4px;font-size:14px;cursor:pointer}
.sidebar button:hover{background:#374151}
.sidebar button.active{background:#2563eb;color:#fff}
.sidebar .reset{margin-top:16px;color:#9ca3af}
.graph{flex:1;padding:20px}
h1{font-size:18px;margin-bottom:12px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:10px 14px;min-width:130px}
.card .val{font-size:20px;font-weight:700}
.card .lbl{font-size:11px;color:#57606a}
.charts{display:flex;flex-wrap:wrap;gap:16px}
.chart{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:8px}
.chart h4{font-size:12px;color:#57606a;margin-bottom:4px}
.nodata{width:500px;height:120px;display:flex;align-items:center;justify-content:center;color:#8c959f}
.placeholder{background:#fff;border:1px dashed #d0d7de;border-radius:6px;padding:40px;text-align:center;color:#57606a}
.error{background:#ffebe9;border:1px solid #ff8182;border-radius:6px;padding:8px 12px;margin-bottom:12px;color:#82071e}
.swatch{display:inline-block;width:10px;height:10px;border-radius:2px;margin-right:6px;vertical-align:middle}
table{border-collapse:collapse;background:#fff;margin-top:16px;font-size:13px}
th,td{padding:4px 12px;border-bottom:1px solid #eaeef2;text-align:left}
footer{margin-top:24px;font-size:11px;color:#8c959f}
</style>
</head>
<body>
<div class="main">
  <div class="sidebar">
    <h2>☰ {{.Menu.Title}}</h2>
    <h3>Machines</h3>
    {{range .Menu.Machines}}
    <form method="post" action="/select/machine">
      <input type="hidden" name="machine" value="{{.ID}}">
      <button type="submit"{{if eq .ID $.Machine}} class="active"{{end}}>⚙ {{.DisplayLabel}}</button>
    </form>
    {{end}}
    <h3>Views</h3>
    {{range .Menu.Views}}
    <form method="post" action="/select/view">
      <input type="hidden" name="view" value="{{.ID}}">
      <button type="submit"{{if eq .ID $.View}} class="active"{{end}}>{{.Icon}} {{.DisplayLabel}}</button>
    </form>
    {{end}}
    <form method="post" action="/select/reset">
      <button type="submit" class="reset">↺ Reset</button>
    </form>
  </div>
  <div class="graph">
    {{if .FetchError}}<div class="error">Feed unavailable: {{.FetchError}}</div>{{end}}
    {{if .Derived.Placeholder}}
      <div class="placeholder">{{.Derived.Message}}</div>
    {{else}}
      <h1>{{.Derived.Title}}{{if .Machine}} · {{.Machine}}{{end}}</h1>
      <div class="cards">
        <div class="card"><div class="val">{{.Derived.Count}}</div><div class="lbl">samples</div></div>
        {{with .Derived.OnOff}}
        <div class="card"><div class="val">{{.On}} / {{.Off}}</div><div class="lbl">ON / OFF</div></div>
        {{end}}
        {{if or .Derived.OnOff (eq .Derived.Kind "downtime")}}
        <div class="card"><div class="val">{{.Derived.OffDurationText}}</div><div class="lbl">off duration</div></div>
        {{end}}
        {{if eq .Derived.Kind "efficiency"}}
        <div class="card"><div class="val">{{pct .Derived.Efficiency}}</div><div class="lbl">under load</div></div>
        {{end}}
      </div>
      <div class="charts">
      {{range .Charts}}
        <div class="chart">
          <h4>{{.Spec.Title}}</h4>
          {{if .NoData}}<div class="nodata">no data</div>{{else}}{{.SVG}}{{end}}
        </div>
      {{end}}
      </div>
      {{with .Derived.States}}
      <table>
        <tr><th>State</th><th>Samples</th></tr>
        {{range .States}}<tr><td><span class="swatch" style="background:{{.Color}}"></span>{{.State}}</td><td>{{.Count}}</td></tr>{{end}}
        <tr><td><span class="swatch" style="background:#8884d8"></span>Other</td><td>{{.Other}}</td></tr>
      </table>
      {{end}}
      {{if .Derived.Machines}}
      <table>
        <tr><th>Machine</th><th>ON</th><th>OFF</th></tr>
        {{range .Derived.Machines}}<tr><td>{{.Machine}}</td><td>{{.On}}</td><td>{{.Off}}</td></tr>{{end}}
      </table>
      {{end}}
      {{if .Derived.Downtime}}
      <table>
        <tr><th>Machine</th><th>Off duration</th></tr>
        {{range .Derived.Downtime}}<tr><td>{{.Machine}}</td><td>{{seconds .Duration}}</td></tr>{{end}}
      </table>
      {{end}}
    {{end}}
    <footer>
      {{if .Loaded}}dataset {{.DatasetID}} · {{.Rows}} rows · fetched {{fmtTime .FetchedAt}}{{else}}waiting for feed…{{end}}
    </footer>
  </div>
</div>
</body>
</html>
{{end}}`
