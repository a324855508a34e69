package main

import (
	"net/http"

	"crossexam/ui"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", cacheForeverHeaders(http.FileServerFS(ui.Files)))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /interview/start", session.ThenFunc(app.startInterview))
	mux.Handle("POST /interview/turn", session.ThenFunc(app.submitTurn))
	mux.Handle("POST /interview/conclude", session.ThenFunc(app.concludeInterview))
	mux.Handle("POST /interview/reset", session.ThenFunc(app.resetInterview))

	return app.recoverPanic(app.logRequest(app.secureHeaders(mux)))
}
