package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/jkivimaki/trainwise/internal/training"
)

type checkinTemplateData struct {
	BaseTemplateData
	Date time.Time
	// CheckIn is nil when today's questionnaire has not been answered yet.
	CheckIn    *training.CheckIn
	Level      training.Level
	Adjustment training.Adjustment
	// Levels lists the override choices in descending intensity.
	Levels []training.Level
	Error  string
}

func checkinLevels() []training.Level {
	return []training.Level{training.LevelFull, training.LevelReduced, training.LevelLight, training.LevelRest}
}

func (app *application) checkinGET(w http.ResponseWriter, r *http.Request) {
	app.renderCheckin(w, r, http.StatusOK, "")
}

func (app *application) renderCheckin(w http.ResponseWriter, r *http.Request, status int, errorMessage string) {
	today := time.Now()

	data := checkinTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             today,
		Levels:           checkinLevels(),
		Error:            errorMessage,
	}

	checkin, err := app.trainingService.GetCheckIn(r.Context(), today)
	switch {
	case errors.Is(err, training.ErrNotFound):
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		data.CheckIn = &checkin
		data.Level = checkin.Effective()
		data.Adjustment = training.AdjustmentFor(data.Level)
	}

	app.render(w, r, status, "checkin", data)
}

func (app *application) checkinPOST(w http.ResponseWriter, r *http.Request) {
	sleep, sleepOK := parseRatingField(r, "sleep")
	soreness, sorenessOK := parseRatingField(r, "soreness")
	stress, stressOK := parseRatingField(r, "stress")
	if !sleepOK || !sorenessOK || !stressOK {
		app.renderCheckin(w, r, http.StatusUnprocessableEntity, "All three ratings must be between 1 and 5.")
		return
	}

	if _, err := app.trainingService.SubmitCheckIn(r.Context(), time.Now(), sleep, soreness, stress); err != nil {
		if errors.Is(err, training.ErrInvalidRatings) {
			app.renderCheckin(w, r, http.StatusUnprocessableEntity, "All three ratings must be between 1 and 5.")
			return
		}
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/checkin")
}

func (app *application) checkinOverridePOST(w http.ResponseWriter, r *http.Request) {
	level := training.Level(r.PostFormValue("level"))
	switch level {
	case training.LevelFull, training.LevelReduced, training.LevelLight, training.LevelRest:
	default:
		http.Error(w, "unknown level", http.StatusUnprocessableEntity)
		return
	}

	err := app.trainingService.OverrideAdjustment(r.Context(), time.Now(), level)
	if errors.Is(err, training.ErrNotFound) {
		// Overriding without a check-in makes no sense.
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/checkin")
}
