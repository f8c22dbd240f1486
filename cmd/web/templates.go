package main

import (
	"embed"
	"net/http"

	"github.com/jkivimaki/trainwise/internal/contexthelpers"
)

//go:embed templates
var templateFS embed.FS

type BaseTemplateData struct {
	CurrentPath string
	Flash       string
}

func (app *application) newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
		Flash:       app.sessionManager.PopString(r.Context(), "flash"),
	}
}
