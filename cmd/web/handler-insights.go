package main

import (
	"net/http"
	"time"

	"github.com/jkivimaki/trainwise/internal/training"
)

type insightsTemplateData struct {
	BaseTemplateData
	Date     time.Time
	Patterns []training.Pattern
}

func (app *application) insightsGET(w http.ResponseWriter, r *http.Request) {
	today := time.Now()

	patterns, err := app.trainingService.DetectPatterns(r.Context(), today)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := insightsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             today,
		Patterns:         patterns,
	}

	app.render(w, r, http.StatusOK, "insights", data)
}
