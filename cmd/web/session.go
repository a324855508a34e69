package main

import (
	"net/http"

	"crossexam/internal/interview"
)

// interviewSessionIDKey is the scs key holding the registry ID of the
// browser's interview session.
const interviewSessionIDKey = "interviewSessionID"

// currentSession returns the browser's interview session, or nil when none exists.
func (app *application) currentSession(r *http.Request) *interview.Session {
	id := app.sessionManager.GetString(r.Context(), interviewSessionIDKey)
	if id == "" {
		return nil
	}
	return app.sessions.Get(id)
}

// ensureSession returns the browser's interview session, creating an
// uninitialized one when none exists yet.
func (app *application) ensureSession(r *http.Request) *interview.Session {
	if session := app.currentSession(r); session != nil {
		return session
	}
	id, session := app.sessions.Create()
	app.sessionManager.Put(r.Context(), interviewSessionIDKey, id)
	return session
}

// dropSession discards the browser's interview session.
func (app *application) dropSession(r *http.Request) {
	id := app.sessionManager.GetString(r.Context(), interviewSessionIDKey)
	if id != "" {
		app.sessions.Delete(id)
	}
	app.sessionManager.Remove(r.Context(), interviewSessionIDKey)
}
