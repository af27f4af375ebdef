package httpadapter

import (
	"embed"
	"html/template"
	"io"

	"github.com/couchcryptid/cep-lookup/internal/form"
	"github.com/couchcryptid/cep-lookup/internal/render"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

type labels struct {
	Street, Neighborhood, City, State string
}

// pageData is the view model for form.html.
type pageData struct {
	form.State
	Labels   labels
	BusyText string
}

func renderPage(w io.Writer, s form.State) error {
	return formTemplate.Execute(w, pageData{
		State: s,
		Labels: labels{
			Street:       render.LabelStreet,
			Neighborhood: render.LabelNeighborhood,
			City:         render.LabelCity,
			State:        render.LabelState,
		},
		BusyText: render.BusyText,
	})
}
