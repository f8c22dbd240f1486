package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jkivimaki/trainwise/internal/ptr"
	"github.com/jkivimaki/trainwise/internal/training"
)

type workoutTemplateData struct {
	BaseTemplateData
	Date time.Time
	// Workout is nil when no session has been started for the date.
	Workout   *training.Workout
	Exercises []training.Exercise
	// Level and Adjustment come from the day's readiness check-in, if any.
	Level         training.Level
	Adjustment    training.Adjustment
	HasAdjustment bool
}

func (app *application) workoutStartPOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}

	sessionContext := training.SessionContext(r.PostFormValue("context"))
	switch sessionContext {
	case training.ContextPlanned, training.ContextUnstructured, training.ContextRecovery:
	default:
		http.Error(w, "unknown session context", http.StatusUnprocessableEntity)
		return
	}

	// A block reference is optional. Week and day default to zero when absent.
	var block *training.BlockRef
	if name := r.PostFormValue("block_name"); name != "" {
		week, _ := strconv.Atoi(r.PostFormValue("block_week"))
		day, _ := strconv.Atoi(r.PostFormValue("block_day"))
		block = &training.BlockRef{Name: name, Week: week, Day: day}
	}

	if err := app.trainingService.StartSession(r.Context(), date, sessionContext, block); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, fmt.Sprintf("/workouts/%s", date.Format("2006-01-02")))
}

func (app *application) workoutGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}

	data := workoutTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             date,
	}

	session, err := app.trainingService.GetSession(r.Context(), date)
	switch {
	case errors.Is(err, training.ErrNotFound):
		// No session yet. The page offers to start one.
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		data.Workout = &session
	}

	if data.Exercises, err = app.trainingService.ListExercises(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}

	level, adjustment, err := app.trainingService.TodayAdjustment(r.Context(), date)
	switch {
	case errors.Is(err, training.ErrNotFound):
		// No check-in for the day.
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		data.Level = level
		data.Adjustment = adjustment
		data.HasAdjustment = true
	}

	app.render(w, r, http.StatusOK, "workout", data)
}

func (app *application) workoutLogSetPOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}

	exerciseID, err := strconv.Atoi(r.PostFormValue("exercise_id"))
	if err != nil {
		http.Error(w, "unknown exercise", http.StatusUnprocessableEntity)
		return
	}

	set := training.Set{Warmup: r.PostFormValue("warmup") == "on"}
	if v := r.PostFormValue("weight_kg"); v != "" {
		weight, parseErr := strconv.ParseFloat(v, 64)
		if parseErr != nil {
			http.Error(w, "invalid weight", http.StatusUnprocessableEntity)
			return
		}
		set.WeightKg = ptr.Ref(weight)
	}
	if v := r.PostFormValue("reps"); v != "" {
		reps, parseErr := strconv.Atoi(v)
		if parseErr != nil {
			http.Error(w, "invalid reps", http.StatusUnprocessableEntity)
			return
		}
		set.Reps = ptr.Ref(reps)
	}
	if v := r.PostFormValue("effort"); v != "" {
		effort, parseErr := strconv.ParseFloat(v, 64)
		if parseErr != nil {
			http.Error(w, "invalid effort", http.StatusUnprocessableEntity)
			return
		}
		set.Effort = ptr.Ref(effort)
	}
	if v := r.PostFormValue("duration_seconds"); v != "" {
		seconds, parseErr := strconv.Atoi(v)
		if parseErr != nil {
			http.Error(w, "invalid duration", http.StatusUnprocessableEntity)
			return
		}
		set.DurationSeconds = ptr.Ref(seconds)
	}
	if v := r.PostFormValue("distance_km"); v != "" {
		distance, parseErr := strconv.ParseFloat(v, 64)
		if parseErr != nil {
			http.Error(w, "invalid distance", http.StatusUnprocessableEntity)
			return
		}
		set.DistanceKm = ptr.Ref(distance)
	}

	record, err := app.trainingService.LogSet(r.Context(), date, exerciseID, set)
	if errors.Is(err, training.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	switch record {
	case training.PRWeight:
		app.flash(r, "New weight record!")
	case training.PRReps:
		app.flash(r, "New rep record!")
	case training.PRE1RM:
		app.flash(r, "New estimated 1RM record!")
	case training.PRNone:
	}

	redirect(w, r, fmt.Sprintf("/workouts/%s", date.Format("2006-01-02")))
}

func (app *application) workoutCompletePOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}

	evaluation, err := app.trainingService.CompleteSession(r.Context(), date)
	if errors.Is(err, training.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	message := fmt.Sprintf("Session complete: %s", evaluation.Verdict)
	if evaluation.Calibrating {
		message += " (calibrating)"
	}
	app.flash(r, message)

	redirect(w, r, fmt.Sprintf("/workouts/%s", date.Format("2006-01-02")))
}
