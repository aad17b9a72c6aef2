package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/trainload/internal/errors"
	"github.com/myrjola/trainload/internal/session"
)

// maxBodySize caps JSON request bodies at one megabyte.
const maxBodySize = 1 << 20

// writeJSON encodes v as the response body with the given status code.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write response", errors.SlogError(err))
	}
}

// readJSON decodes the request body into v. It reports whether decoding
// succeeded; on failure a 400 response has already been sent.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "read request body"))
		return false
	}
	if err = json.Unmarshal(body, v); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "Not found"})
}

// fieldErrors sends a 400 response carrying per-field validation errors.
func (app *application) fieldErrors(w http.ResponseWriter, r *http.Request, errs []session.FieldError) {
	app.writeJSON(w, r, http.StatusBadRequest, map[string][]session.FieldError{"errors": errs})
}

// parseIDParam parses the "id" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		app.notFound(w, r)
		return 0, false
	}
	return id, true
}

// parseCursorParam parses the optional "cursor" query parameter.
// On failure, sends HTTP 400 response automatically.
func (app *application) parseCursorParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	cursorStr := r.URL.Query().Get("cursor")
	if cursorStr == "" {
		return 0, true
	}
	cursor, err := strconv.ParseInt(cursorStr, 10, 64)
	if err != nil || cursor <= 0 {
		app.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Invalid cursor"})
		return 0, false
	}
	return cursor, true
}

// parseLimitParam parses the optional "limit" query parameter. A missing
// limit yields zero, which the session service replaces with its default.
func (app *application) parseLimitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		app.writeJSON(w, r, http.StatusBadRequest,
			map[string]string{"error": fmt.Sprintf("Invalid limit %q", limitStr)})
		return 0, false
	}
	return limit, true
}
