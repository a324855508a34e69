package main

import (
	"log/slog"
	"net/http"

	"crossexam/internal/errors"
	"crossexam/internal/interview"
	"crossexam/internal/models"
)

// startInterview generates a scenario for the chosen difficulty and activates
// the session. Generation and shape failures keep the session uninitialized
// and re-render the setup screen with a retry affordance.
func (app *application) startInterview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	difficulty := models.Difficulty(r.PostForm.Get("difficulty"))
	session := app.ensureSession(r)

	err := session.Start(r.Context(), difficulty)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, interview.ErrUnknownDifficulty):
		app.clientError(w, r, http.StatusUnprocessableEntity)
	case errors.Is(err, interview.ErrBusy):
		app.clientError(w, r, http.StatusConflict)
	case errors.Is(err, interview.ErrAlreadyStarted), errors.Is(err, interview.ErrConcluded):
		// The view reflects whatever state the session is actually in.
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "scenario generation failed", errors.SlogError(err))
		app.render(w, r, http.StatusOK, "home", homeTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Difficulties:     models.Difficulties(),
			ErrorMessage:     "Could not generate a scenario. Please try again.",
		})
	}
}

// submitTurn asks the witness one question. htmx requests get the refreshed
// chat panel back; everything else is redirected to the main screen.
func (app *application) submitTurn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	session := app.currentSession(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	err := session.SubmitTurn(r.Context(), r.PostForm.Get("question"))
	switch {
	case err == nil:
		// Fallthrough below; oracle failures surfaced as a fallback message.
	case errors.Is(err, interview.ErrEmptyQuestion):
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	case errors.Is(err, interview.ErrBusy):
		app.clientError(w, r, http.StatusConflict)
		return
	default:
		// Not active or a conclusion failure via "end interview"; show the current screen.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	snapshot := session.Snapshot()
	h := app.htmx.NewHandler(w, r)
	if snapshot.State == interview.StateConcluded {
		// The reserved "end interview" utterance concluded the session.
		if h.IsHxRequest() {
			w.Header().Set("HX-Redirect", "/")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if h.IsHxRequest() {
		app.renderPartial(w, r, http.StatusOK, "interview", "chat", interviewTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Snapshot:         snapshot,
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// concludeInterview asks the oracle for the final report. On failure the
// session stays active and the interview screen offers a retry.
func (app *application) concludeInterview(w http.ResponseWriter, r *http.Request) {
	session := app.currentSession(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	err := session.Conclude(r.Context())
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, interview.ErrBusy):
		app.clientError(w, r, http.StatusConflict)
	case errors.Is(err, interview.ErrConcluded), errors.Is(err, interview.ErrNotActive):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "report generation failed", errors.SlogError(err))
		app.render(w, r, http.StatusOK, "interview", interviewTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Snapshot:         session.Snapshot(),
			ErrorMessage:     "Could not generate the report. Please try again.",
		})
	}
}

// resetInterview discards the session entirely and returns to setup. This is
// the only way out of a concluded session.
func (app *application) resetInterview(w http.ResponseWriter, r *http.Request) {
	app.dropSession(r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
