package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
)

// PageData — данные для HTML-страниц
type PageData struct {
	Title    string
	Path     string
	User     *domain.User
	NavLinks []domain.NavLink
	Error    string

	Areas     []domain.Area
	Readings  []domain.CongestionReading
	Stability *domain.StabilitySummary
	Chat      []domain.ChatMessage
	ChatType  domain.ChatType
	Markers   []domain.MapMarker
	Hotspots  []domain.MapMarker
	Analytics *domain.AnalyticsSummary
	Corridor  *domain.Corridor
	Corridors []domain.Corridor
	Cost      *domain.CostEstimate
	NotFound  bool
}

type page struct {
	title string
	role  domain.Role // пустая роль — страница доступна без входа
	load  func(e *Env, r *http.Request, u domain.User, d *PageData) error
}

var pages = map[string]page{
	"/citizen/congestion": {title: "Live Congestion", role: domain.RoleCitizen, load: loadCongestion},
	"/citizen/route":      {title: "Route Planner", role: domain.RoleCitizen, load: loadAreas},
	"/citizen/stability":  {title: "Traffic Stability", role: domain.RoleCitizen, load: loadStability},
	"/citizen/assistant":  {title: "AI Assistant", role: domain.RoleCitizen, load: loadChat},

	"/authority/map":       {title: "Live Map", role: domain.RoleAuthority, load: loadMap},
	"/authority/analytics": {title: "Analytics", role: domain.RoleAuthority, load: loadAnalytics},
	"/authority/cost":      {title: "Cost Calculator", role: domain.RoleAuthority, load: loadCost},
	"/authority/helper":    {title: "AI Helper", role: domain.RoleAuthority, load: loadChat},
}

func ParsePages() *template.Template {
	return template.Must(template.New("page").Funcs(template.FuncMap{
		"inr": domain.FormatINR,
		"lower": func(l domain.Level) string {
			return strings.ToLower(l.Label())
		},
	}).Parse(pageTemplate))
}

// HandlePages — все HTML-страницы: /, /auth, /citizen/*, /authority/*
func (e *Env) HandlePages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	var user *domain.User
	if u, err := e.CurrentUser(r); err == nil {
		user = &u
	} else if apperr.CodeOf(err) != apperr.CodeUnauthenticated {
		e.Log.Warn("resolve session", zap.Error(err))
	}

	switch path {
	case "/", "/auth":
		if user != nil {
			http.Redirect(w, r, domain.HomePath(user.Role), http.StatusFound)
			return
		}
		title := "Smart Traffic Dashboard"
		if path == "/auth" {
			title = "Sign in"
		}
		e.render(w, http.StatusOK, PageData{Title: title, Path: path})
		return
	}

	p, ok := pages[path]
	if !ok {
		data := PageData{Title: "Page not found", Path: path, User: user, NotFound: true}
		if user != nil {
			data.NavLinks = domain.NavLinks(user.Role)
		}
		e.render(w, http.StatusNotFound, data)
		return
	}
	if user == nil {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	if user.Role != p.role {
		http.Redirect(w, r, domain.HomePath(user.Role), http.StatusFound)
		return
	}

	data := PageData{
		Title:    p.title,
		Path:     path,
		User:     user,
		NavLinks: domain.NavLinks(user.Role),
	}
	if err := p.load(e, r, *user, &data); err != nil {
		e.Log.Error("load page data", zap.String("path", path), zap.Error(err))
		data.Error = apperr.MessageOf(err)
	}
	e.render(w, http.StatusOK, data)
}

func (e *Env) render(w http.ResponseWriter, status int, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := e.Pages.Execute(w, data); err != nil {
		e.Log.Error("render page", zap.String("path", data.Path), zap.Error(err))
	}
}

func loadCongestion(e *Env, r *http.Request, _ domain.User, d *PageData) error {
	readings, err := e.Store.LatestCongestion(r.Context())
	d.Readings = readings
	return err
}

func loadAreas(e *Env, r *http.Request, _ domain.User, d *PageData) error {
	areas, err := e.Store.ListAreas(r.Context())
	d.Areas = areas
	return err
}

func loadStability(e *Env, r *http.Request, _ domain.User, d *PageData) error {
	readings, err := e.Store.LatestCongestion(r.Context())
	if err != nil {
		return err
	}
	rep := domain.StabilityReport(readings)
	d.Stability = &rep
	return nil
}

func loadChat(e *Env, r *http.Request, u domain.User, d *PageData) error {
	d.ChatType = domain.ChatTypeFor(u.Role)
	history, err := e.Assistant.History(r.Context(), u, d.ChatType)
	d.Chat = history
	return err
}

func loadMap(e *Env, r *http.Request, _ domain.User, d *PageData) error {
	markers, err := e.markers(r)
	if err != nil {
		return err
	}
	d.Markers = markers
	d.Hotspots = domain.Hotspots(markers)
	return nil
}

func loadAnalytics(e *Env, r *http.Request, _ domain.User, d *PageData) error {
	id := r.URL.Query().Get("route")
	if id == "" {
		id = domain.DefaultCorridorID
	}
	d.Corridors = domain.Corridors()
	d.Corridor = domain.FindCorridor(id)
	if d.Corridor == nil {
		return apperr.NotFound("unknown corridor " + id)
	}
	points, err := e.Store.Analytics(r.Context(), id)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		points = domain.AnalyticsFixtures()
	}
	sum := domain.SummarizeAnalytics(points)
	d.Analytics = &sum
	return nil
}

func loadCost(e *Env, _ *http.Request, _ domain.User, d *PageData) error {
	est := domain.EstimateCost(e.CostFactors, defaultCostInput)
	d.Cost = &est
	return nil
}

var pageTemplate = strings.TrimSpace(`
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · Smart Traffic</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:system-ui,-apple-system,"Segoe UI",Roboto,sans-serif;background:#f8fafc;color:#0f172a}
nav{background:#1e293b;color:#fff;padding:12px 16px;display:flex;gap:16px;align-items:center}
nav a{color:#cbd5e1;text-decoration:none}
nav a.active{color:#fff;font-weight:600}
nav .spacer{flex:1}
main{max-width:960px;margin:24px auto;padding:0 16px}
h1{font-size:22px;margin-bottom:16px}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{padding:8px;border-bottom:1px solid #e2e8f0;text-align:left;font-size:14px}
.lvl-low{color:#16a34a}.lvl-medium{color:#d97706}.lvl-high{color:#dc2626}
.err{background:#fee2e2;color:#991b1b;padding:8px;margin-bottom:12px}
.msg{padding:8px;margin:4px 0;background:#fff;border-radius:6px}
.msg.user{background:#dbeafe}
form{display:flex;flex-direction:column;gap:8px;max-width:360px}
</style>
</head>
<body>
<nav>
<strong>Smart Traffic</strong>
{{range .NavLinks}}<a href="{{.Href}}"{{if eq .Href $.Path}} class="active"{{end}}>{{.Label}}</a>{{end}}
<span class="spacer"></span>
{{if .User}}<span>{{.User.FullName}}</span> <a href="#" id="signout">Sign out</a>{{else}}<a href="/auth">Sign in</a>{{end}}
</nav>
<main>
<h1>{{.Title}}</h1>
{{if .Error}}<div class="err">{{.Error}}</div>{{end}}

{{if .NotFound}}
<p>The page you are looking for does not exist. <a href="/">Return to home</a></p>
{{end}}

{{if eq .Path "/"}}
<p>Real-time congestion, route suggestions and traffic stability for citizens and traffic authorities.</p>
<p><a href="/auth">Get started</a></p>
{{end}}

{{if eq .Path "/auth"}}
<form id="signin">
<input name="email" type="email" placeholder="Email" required>
<input name="password" type="password" placeholder="Password" required>
<button>Sign in</button>
</form>
<h1>Create account</h1>
<form id="signup">
<input name="fullName" placeholder="Full name" required>
<input name="email" type="email" placeholder="Email" required>
<input name="phone" placeholder="Phone">
<input name="password" type="password" placeholder="Password" required>
<select name="role"><option value="citizen">Citizen</option><option value="authority">Traffic authority</option></select>
<button>Sign up</button>
</form>
{{end}}

{{if .Readings}}
<table>
<tr><th>Area</th><th>Level</th><th>Speed</th><th>Density</th><th>Near term</th><th>Reason</th></tr>
{{range .Readings}}<tr><td>{{.AreaName}}</td><td class="lvl-{{lower .Level}}">{{.Level.Label}}</td><td>{{.CurrentSpeed}} km/h</td><td>{{.VehicleDensity}}/km</td><td>{{.NearTermPrediction.Label}}</td><td>{{.Reason}}</td></tr>{{end}}
</table>
{{end}}

{{if .Areas}}
<form id="route">
<select name="source">{{range .Areas}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select>
<select name="destination">{{range .Areas}}<option value="{{.ID}}">{{.Name}}</option>{{end}}</select>
<button>Find routes</button>
</form>
<pre id="routes"></pre>
{{end}}

{{with .Stability}}
<p>Average stability: {{.AvgStability}}%</p>
<table>
<tr><th>#</th><th>Area</th><th>Stability</th><th>Status</th><th>Trend</th></tr>
{{range .Entries}}<tr><td>{{.Rank}}</td><td>{{.AreaName}}</td><td>{{.StabilityIndex}}%</td><td>{{.BucketLabel}}</td><td>{{.Trend}}</td></tr>{{end}}
</table>
{{end}}

{{if .ChatType}}
<div id="chat">{{range .Chat}}<div class="msg {{.Role}}">{{.Content}}</div>{{end}}</div>
<form id="ask" data-type="{{.ChatType}}">
<input name="message" placeholder="Ask about traffic..." required>
<button>Send</button>
</form>
{{end}}

{{if .Markers}}
<p>{{len .Hotspots}} emerging hotspots</p>
<table>
<tr><th>Area</th><th>Lat</th><th>Lng</th><th>Level</th><th>Hotspot</th></tr>
{{range .Markers}}<tr><td>{{.Name}}</td><td>{{.Lat}}</td><td>{{.Lng}}</td><td class="lvl-{{lower .Level}}">{{.Level.Label}}</td><td>{{if .IsHotspot}}yes{{end}}</td></tr>{{end}}
</table>
{{end}}

{{with .Analytics}}
<p>{{range $.Corridors}}<a href="?route={{.ID}}">{{.Name}}</a> {{end}}</p>
<p>Avg speed {{.AvgSpeed}} km/h · avg congestion {{.AvgCongestion}}% · prediction accuracy {{.AvgAccuracy}}% · peaks {{range .PeakHours}}{{.}} {{end}}</p>
<table>
<tr><th>Time</th><th>Speed</th><th>Congestion</th><th>Accuracy</th></tr>
{{range .Chart}}<tr><td>{{.Time}}</td><td>{{.Speed}}</td><td>{{.Congestion}}%</td><td>{{.Accuracy}}%</td></tr>{{end}}
</table>
{{end}}

{{with .Cost}}
<p>{{.Input.Vehicles}} vehicles, {{.Input.AvgDelayMins}} min delay, {{.Input.Level.Label}} congestion</p>
<table>
<tr><td>Fuel wasted</td><td>{{.Formatted.FuelWasted}}</td></tr>
<tr><td>Fuel cost</td><td>{{.Formatted.FuelCost}}</td></tr>
<tr><td>Time lost</td><td>{{.Formatted.TimeLost}}</td></tr>
<tr><td>Time cost</td><td>{{.Formatted.TimeCost}}</td></tr>
<tr><td>CO2</td><td>{{.Formatted.Carbon}}</td></tr>
<tr><td>Total daily</td><td>{{.Formatted.Total}}</td></tr>
<tr><td>Monthly</td><td>{{.Formatted.Monthly}}</td></tr>
<tr><td>Yearly</td><td>{{.Formatted.Yearly}}</td></tr>
<tr><td>Trees to offset (yearly)</td><td>{{.TreesYearly}}</td></tr>
</table>
{{end}}
</main>
<script>
async function api(method, url, body) {
  const res = await fetch(url, {method, headers: {"Content-Type": "application/json"}, body: body ? JSON.stringify(body) : undefined});
  const text = await res.text();
  const data = text ? JSON.parse(text) : {};
  if (!res.ok) throw new Error(data.error || res.statusText);
  return data;
}
function formJSON(f) { return Object.fromEntries(new FormData(f).entries()); }
function bind(id, fn) {
  const el = document.getElementById(id);
  if (!el) return;
  el.addEventListener(el.tagName === "FORM" ? "submit" : "click", async ev => {
    ev.preventDefault();
    try { await fn(el); } catch (err) { alert(err.message); }
  });
}
bind("signin", async f => { const d = await api("POST", "/api/auth/signin", formJSON(f)); location = d.homePath; });
bind("signup", async f => { const d = await api("POST", "/api/auth/signup", formJSON(f)); location = d.homePath; });
bind("signout", async () => { await api("POST", "/api/auth/signout"); location = "/auth"; });
bind("route", async f => { const d = await api("POST", "/api/routes", formJSON(f)); document.getElementById("routes").textContent = JSON.stringify(d.routes, null, 2); });
bind("ask", async f => {
  const d = await api("POST", "/api/chat", {message: f.message.value, chatType: f.dataset.type});
  const box = document.getElementById("chat");
  for (const [role, text] of [["user", f.message.value], ["assistant", d.response]]) {
    const div = document.createElement("div"); div.className = "msg " + role; div.textContent = text; box.appendChild(div);
  }
  f.reset();
});
</script>
</body>
</html>
`)
