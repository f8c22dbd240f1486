package main

import (
	"net/http"
	"time"

	"github.com/jkivimaki/trainwise/internal/training"
)

type progressionsTemplateData struct {
	BaseTemplateData
	Date        time.Time
	Suggestions []training.ExerciseSuggestion
}

func (app *application) progressionsGET(w http.ResponseWriter, r *http.Request) {
	today := time.Now()

	suggestions, err := app.trainingService.SuggestProgressions(r.Context(), today)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := progressionsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             today,
		Suggestions:      suggestions,
	}

	app.render(w, r, http.StatusOK, "progressions", data)
}
