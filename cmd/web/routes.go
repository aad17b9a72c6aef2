package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		api = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				noCache(app.timeout(next))))))
		}
	)

	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/sessions", api(http.HandlerFunc(app.sessionsGET)))
	mux.Handle("POST /api/sessions", api(http.HandlerFunc(app.sessionsPOST)))
	mux.Handle("GET /api/sessions/{id}", api(http.HandlerFunc(app.sessionGET)))
	mux.Handle("PUT /api/sessions/{id}", api(http.HandlerFunc(app.sessionPUT)))
	mux.Handle("DELETE /api/sessions/{id}", api(http.HandlerFunc(app.sessionDELETE)))

	mux.Handle("GET /api/workload", api(http.HandlerFunc(app.workloadGET)))

	mux.Handle("/", api(http.HandlerFunc(app.notFound)))

	return mux
}
