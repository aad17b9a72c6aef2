package main

import (
	"errors"
	"net/http"

	"github.com/myrjola/trainload/internal/session"
)

// sessionsGET lists sessions newest first with cursor pagination.
func (app *application) sessionsGET(w http.ResponseWriter, r *http.Request) {
	cursor, ok := app.parseCursorParam(w, r)
	if !ok {
		return
	}
	limit, ok := app.parseLimitParam(w, r)
	if !ok {
		return
	}

	page, err := app.sessionService.List(r.Context(), cursor, limit)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCursor) {
			app.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Invalid cursor"})
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, page)
}

// sessionsPOST creates a session from the request body.
func (app *application) sessionsPOST(w http.ResponseWriter, r *http.Request) {
	var in session.Input
	if !app.readJSON(w, r, &in) {
		return
	}

	created, fieldErrs, err := app.sessionService.Create(r.Context(), in)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		app.fieldErrors(w, r, fieldErrs)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, created)
}

// sessionGET retrieves a single session.
func (app *application) sessionGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}

	sess, err := app.sessionService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, sess)
}

// sessionPUT partially updates a session. Only fields present in the body
// are validated and applied.
func (app *application) sessionPUT(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}

	var in session.Input
	if !app.readJSON(w, r, &in) {
		return
	}

	updated, fieldErrs, err := app.sessionService.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		app.fieldErrors(w, r, fieldErrs)
		return
	}

	app.writeJSON(w, r, http.StatusOK, updated)
}

// sessionDELETE removes a session.
func (app *application) sessionDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}

	if err := app.sessionService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}
