package main

import (
	"net/http"

	"crossexam/internal/interview"
	"crossexam/internal/models"
)

// home renders whichever screen matches the session state: setup, live
// interview, or final report. The view is a pure function of the snapshot.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	session := app.currentSession(r)
	if session == nil {
		app.render(w, r, http.StatusOK, "home", homeTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Difficulties:     models.Difficulties(),
		})
		return
	}

	snapshot := session.Snapshot()
	switch snapshot.State {
	case interview.StateActive:
		app.render(w, r, http.StatusOK, "interview", interviewTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Snapshot:         snapshot,
		})
	case interview.StateConcluded:
		app.render(w, r, http.StatusOK, "report", reportTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Snapshot:         snapshot,
		})
	default:
		app.render(w, r, http.StatusOK, "home", homeTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Difficulties:     models.Difficulties(),
		})
	}
}
