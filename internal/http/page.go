package http

import (
	"html/template"

	"github.com/kjstillabower/weather-form/internal/display"
)

// pageData feeds pageTemplate.
type pageData struct {
	// Location is echoed back into the input field.
	Location string
	Alerts   []string
	Display  display.Snapshot
	Forecast string
	Tips     string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Weather</title>
</head>
<body>
<h1>Weather</h1>
{{range .Alerts}}<div class="alert" role="alert">{{.}}</div>
{{end}}<form id="weatherForm" method="post" action="/weather">
<input id="location" name="location" type="text" placeholder="City name" value="{{.Location}}">
<button type="submit">Get Weather</button>
<button type="submit" formmethod="get" formaction="/forecast">Forecast</button>
<button type="submit" formmethod="get" formaction="/tips">Farming Tips</button>
</form>
<div id="weatherDisplay" style="display: {{if .Display.Visible}}block{{else}}none{{end}}">
<h2 id="locationName">{{.Display.LocationName}}</h2>
<p>Temperature: <span id="temperature">{{.Display.Temperature}}</span></p>
<p>Conditions: <span id="description">{{.Display.Description}}</span></p>
<p>Humidity: <span id="humidity">{{.Display.Humidity}}</span></p>
<p>Wind: <span id="windSpeed">{{.Display.WindSpeed}}</span></p>
<p>Updated: <span id="timestamp">{{.Display.Timestamp}}</span></p>
</div>
{{if .Forecast}}<pre id="forecast">{{.Forecast}}</pre>
{{end}}{{if .Tips}}<pre id="tips">{{.Tips}}</pre>
{{end}}</body>
</html>
`))
