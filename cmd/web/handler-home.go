package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/jkivimaki/trainwise/internal/training"
)

const recentDays = 7

type homeTemplateData struct {
	BaseTemplateData
	Date time.Time
	// CheckIn is nil before the morning readiness questionnaire is answered.
	CheckIn    *training.CheckIn
	Level      training.Level
	Adjustment training.Adjustment
	// Today is nil when no session has been started for the day.
	Today *training.Workout
	// Recent holds the past week's sessions, newest first.
	Recent []training.Workout
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	today := time.Now()

	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             today,
	}

	checkin, err := app.trainingService.GetCheckIn(r.Context(), today)
	switch {
	case errors.Is(err, training.ErrNotFound):
		// Not checked in yet. The page links to the questionnaire.
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		data.CheckIn = &checkin
		data.Level = checkin.Effective()
		data.Adjustment = training.AdjustmentFor(data.Level)
	}

	session, err := app.trainingService.GetSession(r.Context(), today)
	switch {
	case errors.Is(err, training.ErrNotFound):
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		data.Today = &session
	}

	if data.Recent, err = app.trainingService.RecentSessions(r.Context(), today, recentDays); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "home", data)
}
