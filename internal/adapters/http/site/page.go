package site

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/okian/floorwatch/internal/domain/dashboard"
)

// plotlyURL is the charting library loaded by the page.
const plotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// PageData feeds the dashboard page.
type PageData struct {
	Lang   string
	Title  string
	Layout dashboard.LayoutView
}

// Page renders the dashboard shell. Widgets are drawn client side from the
// embedded layout and the session views polled from the API.
func Page(data PageData) templ.Component {
	return Document(data.Lang, data.Title, templ.Join(
		Banner(data.Title),
		Grid(
			Card("Cycle time", false, Widget("cycle-time", "gauge")),
			Card("Time to completion", false, Widget("time-to-complete", "gauge")),
			Card("Safety", false, SafetyLights()),
			Card("Substance levels", false, Widget("levels", "bars")),
			Card("Manufacturing room", false, Widget("thermometer", "thermometer")),
			Card("Production", true, templ.Join(BatchLine(), ProductionChart(data.Layout.ChartHeight))),
		),
		StatusLine(),
		LayoutScript(data.Layout),
		templ.Raw(`<script src="/static/dashboard.js"></script>`),
	))
}

// Document wraps body in the html skeleton.
func Document(lang, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!doctype html>
<html lang="` + templ.EscapeString(lang) + `">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>` + templ.EscapeString(title) + `</title>
  <link rel="stylesheet" href="/static/dashboard.css">
  <script src="` + plotlyURL + `"></script>
</head>
<body>
`
		if _, err := io.WriteString(w, head); err != nil {
			return renderErr(err)
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return renderErr(err)
	})
}

// Banner is the page header with the feed controls.
func Banner(title string) templ.Component {
	return write(`<header class="banner">
  <h1>` + templ.EscapeString(title) + `</h1>
  <div class="controls">
    <button id="toggle" type="button" disabled>start</button>
    <button id="new-batch" type="button" disabled>New batch</button>
  </div>
</header>
`)
}

// Grid lays cards out in the main area.
func Grid(cards ...templ.Component) templ.Component {
	return templ.Join(
		templ.Raw("<main class=\"grid\">\n"),
		templ.Join(cards...),
		templ.Raw("</main>\n"),
	)
}

// Card frames one widget under a heading. Wide cards span the grid.
func Card(title string, wide bool, body templ.Component) templ.Component {
	class := "card"
	if wide {
		class += " wide"
	}
	return templ.Join(
		write(`<section class="`+class+`">`+"\n"+`<h2>`+templ.EscapeString(title)+"</h2>\n"),
		body,
		templ.Raw("</section>\n"),
	)
}

// Widget is an empty container the script draws into.
func Widget(id, class string) templ.Component {
	return write(`<div id="` + templ.EscapeString(id) + `" class="` + templ.EscapeString(class) + `"></div>` + "\n")
}

// SafetyLights lists the three room indicators.
func SafetyLights() templ.Component {
	rooms := []struct{ id, label string }{
		{"materials", "Materials"},
		{"manufacturing", "Manufacturing"},
		{"packing", "Packing"},
	}
	items := make([]templ.Component, 0, len(rooms)+2)
	items = append(items, templ.Raw("<ul class=\"safety\">\n"))
	for _, r := range rooms {
		items = append(items, write(`<li><span id="safety-`+r.id+`" class="light"></span>`+r.label+"</li>\n"))
	}
	items = append(items, templ.Raw("</ul>\n"))
	return templ.Join(items...)
}

// BatchLine shows the batch number and start label.
func BatchLine() templ.Component {
	return templ.Raw(`<p id="batch"><span id="batch-number"></span> <span id="batch-started"></span></p>` + "\n")
}

// ProductionChart is the cumulative production chart container.
func ProductionChart(height int) templ.Component {
	return write(`<div id="production" style="height:` + strconv.Itoa(height) + `px"></div>` + "\n")
}

// StatusLine carries request errors.
func StatusLine() templ.Component {
	return templ.Raw(`<p id="status" class="status" role="status"></p>` + "\n")
}

// LayoutScript embeds the widget layout as JSON for the script. Marshal
// escapes <, > and &, so the payload cannot close the script element.
func LayoutScript(layout dashboard.LayoutView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		payload, err := json.Marshal(layout)
		if err != nil {
			return renderErr(err)
		}
		_, err = io.WriteString(w, `<script id="layout" type="application/json">`+string(payload)+"</script>\n")
		return renderErr(err)
	})
}

func write(html string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return renderErr(err)
	})
}

func renderErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRender, err)
}
