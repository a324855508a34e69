package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"crossexam/internal/contexthelpers"
	"crossexam/internal/errors"
	"crossexam/ui"
)

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to a directory inside ui/templates/pages. It has to include a template named "page".
func pageTemplate(pageName string) (*template.Template, error) {
	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	t, err := template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
	}).ParseFS(ui.Files, "templates/base.gohtml", fmt.Sprintf("templates/pages/%s/*.gohtml", pageName))
	if err != nil {
		return nil, errors.Wrap(err, "parse page template", slog.String("page", pageName))
	}
	return t, nil
}

// requestFuncs binds the nonce and csrf template functions to the request's context values.
func requestFuncs(r *http.Request) template.FuncMap {
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=%q", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=%q/>", contexthelpers.CSRFToken(ctx))
	return template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	}
}

// render writes the full page for pageName, wrapped in the base template.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	app.renderTemplate(w, r, status, pageName, "base", data)
}

// renderPartial writes a single named template from the page, used for htmx swaps.
func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, status int, pageName string, templateName string, data any) {
	app.renderTemplate(w, r, status, pageName, templateName, data)
}

func (app *application) renderTemplate(
	w http.ResponseWriter, r *http.Request, status int, pageName string, templateName string, data any,
) {
	t, err := pageTemplate(pageName)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	t.Funcs(requestFuncs(r))

	// Render to a buffer first so a failed template never leaks a half-written page.
	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, templateName, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template",
			slog.String("page", pageName), slog.String("template", templateName)))
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
