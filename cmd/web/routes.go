package main

import (
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(shared(next))))
		}
	)

	mux.Handle("GET /workouts/{date}", session(http.HandlerFunc(app.workoutGET)))
	mux.Handle("POST /workouts/{date}/start", session(http.HandlerFunc(app.workoutStartPOST)))
	mux.Handle("POST /workouts/{date}/sets", session(http.HandlerFunc(app.workoutLogSetPOST)))
	mux.Handle("POST /workouts/{date}/complete", session(http.HandlerFunc(app.workoutCompletePOST)))
	mux.Handle("GET /workouts/{date}/exercises/{exerciseID}/info", session(http.HandlerFunc(app.exerciseInfoGET)))

	mux.Handle("GET /checkin", session(http.HandlerFunc(app.checkinGET)))
	mux.Handle("POST /checkin", session(http.HandlerFunc(app.checkinPOST)))
	mux.Handle("POST /checkin/override", session(http.HandlerFunc(app.checkinOverridePOST)))

	mux.Handle("GET /progressions", session(http.HandlerFunc(app.progressionsGET)))
	mux.Handle("GET /insights", session(http.HandlerFunc(app.insightsGET)))

	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	// Home route (most specific)
	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	// Everything else is a 404 rendered with the site chrome.
	mux.Handle("/", session(http.HandlerFunc(app.notFound)))

	return mux, nil
}
