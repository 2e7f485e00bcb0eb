// Package advocacyui serves the server-rendered "who do I call" pages: a
// ZIP + policy category form and the resulting advocacy target cards.
package advocacyui

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/civics"
)

type pageData struct {
	Categories []string
	ZIP        string
	Category   string
	Cards      []civics.Card
	Error      string
	Searched   bool
}

// RegisterRoutes mounts the advocacy form and search endpoints.
func RegisterRoutes(r chi.Router, a *app.Application) {
	r.Get("/advocacy", func(w http.ResponseWriter, req *http.Request) {
		render(w, pageData{Categories: civics.PolicyCategories()})
	})

	r.Post("/advocacy/search", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		data := pageData{
			Categories: civics.PolicyCategories(),
			ZIP:        req.PostFormValue("zip"),
			Category:   req.PostFormValue("category"),
			Searched:   true,
		}

		if !a.Ready() {
			data.Error = "Legislator data is still loading. Try again in a minute."
			render(w, data)
			return
		}

		cards, err := a.Selector().Select(data.ZIP, data.Category)
		switch {
		case errors.Is(err, civics.ErrBadZIP):
			data.Error = "Please enter a five-digit Illinois ZIP code."
		case errors.Is(err, civics.ErrZIPNotFound):
			data.Error = "That ZIP code is not in our data yet. We cover Illinois ZIP codes only."
		case err != nil:
			log.Printf("[advocacy] lookup failed for zip %q: %v", data.ZIP, err)
			data.Error = "Something went wrong looking up that ZIP code."
		default:
			data.Cards = cards
		}
		render(w, data)
	})
}

func render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		log.Printf("[advocacy] template render: %v", err)
	}
}

var page = template.Must(template.New("advocacy").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>Who Do I Call? | Statehouse Atlas</title>
	<style>
		body { font-family: Georgia, serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
		h1 { font-size: 1.6rem; }
		form { display: flex; gap: 0.5rem; flex-wrap: wrap; margin-bottom: 2rem; }
		input, select, button { font-size: 1rem; padding: 0.4rem 0.6rem; }
		button { background: #16324f; color: #fff; border: none; cursor: pointer; }
		.error { background: #fdecea; border-left: 4px solid #b3261e; padding: 0.8rem 1rem; }
		.card { border: 1px solid #ccc; border-radius: 6px; padding: 1rem 1.2rem; margin-bottom: 1rem; }
		.card h2 { margin: 0 0 0.2rem; font-size: 1.15rem; }
		.type { text-transform: uppercase; letter-spacing: 0.08em; font-size: 0.75rem; color: #6b7280; }
		.badge { display: inline-block; background: #16324f; color: #fff; border-radius: 3px; font-size: 0.7rem; padding: 0.15rem 0.45rem; margin-right: 0.3rem; }
		.script { background: #f3f4f6; padding: 0.6rem 0.8rem; font-style: italic; margin-top: 0.6rem; }
	</style>
</head>
<body>
	<h1>Who do I call about this?</h1>
	<p>Enter your ZIP code and pick an issue. We match you with your own legislators plus the members best positioned to move a bill.</p>
	<form method="post" action="/advocacy/search">
		<input type="text" name="zip" placeholder="ZIP code" value="{{.ZIP}}" maxlength="5" required>
		<select name="category">
			<option value="">Any issue</option>
			{{range .Categories}}<option value="{{.}}" {{if eq . $.Category}}selected{{end}}>{{.}}</option>{{end}}
		</select>
		<button type="submit">Find my targets</button>
	</form>

	{{if .Error}}<div class="error">{{.Error}}</div>{{end}}

	{{range .Cards}}
	<div class="card">
		<div class="type">{{.Type}}</div>
		<h2>{{.Member.Name}} <small>({{.Member.Party}}, {{.Member.Chamber}} District {{.Member.District}})</small></h2>
		{{range .Badges}}<span class="badge">{{.}}</span>{{end}}
		<p>{{.Why}}</p>
		<div class="script">{{.ScriptHint}}</div>
	</div>
	{{end}}

	{{if and .Searched (not .Error) (not .Cards)}}
	<p>No matching legislators found for that ZIP code.</p>
	{{end}}
</body>
</html>
`))
