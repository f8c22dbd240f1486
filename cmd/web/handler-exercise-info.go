package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/jkivimaki/trainwise/internal/training"
)

// exerciseInfoTemplateData contains data for the exercise info template.
type exerciseInfoTemplateData struct {
	BaseTemplateData
	Date     time.Time
	Exercise training.Exercise
	// Record holds the known personal bests; HasRecord is false for an
	// exercise with no working-set history.
	Record    training.Record
	HasRecord bool
}

// exerciseInfoGET handles GET requests to view exercise information.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	exerciseID, ok := app.parseExerciseIDParam(w, r)
	if !ok {
		return
	}

	exercise, err := app.trainingService.GetExercise(r.Context(), exerciseID)
	if errors.Is(err, training.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	record, hasRecord, err := app.trainingService.ExerciseRecords(r.Context(), exerciseID, date)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := exerciseInfoTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             date,
		Exercise:         exercise,
		Record:           record,
		HasRecord:        hasRecord,
	}

	app.render(w, r, http.StatusOK, "exercise-info", data)
}
