// Package app serves the Quill dashboard: a small server-rendered UI
// over the runs and templates APIs.
package app

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/quill/pkg/module"
	"github.com/JaimeStill/quill/pkg/web"
)

//go:embed layouts/*.html
var layoutFS embed.FS

//go:embed views/*.html
var viewFS embed.FS

//go:embed static/*
var staticFS embed.FS

var views = []web.ViewDef{
	{Route: "GET /{$}", Template: "runs.html", Title: "Runs", Bundle: "runs"},
	{Route: "GET /templates", Template: "templates.html", Title: "Brand Templates", Bundle: "templates"},
}

var notFound = web.ViewDef{Template: "notfound.html", Title: "Not Found"}

// NewModule creates the dashboard module mounted at basePath.
func NewModule(basePath string) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		layoutFS, viewFS,
		"layouts/*.html", "views",
		basePath, append(views, notFound),
	)
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	for _, view := range views {
		router.HandleFunc(view.Route, ts.PageHandler("base", view))
	}
	router.Handle("GET /static/", web.DistServer(staticFS, ".", ""))
	router.SetFallback(ts.ErrorHandler("base", notFound, http.StatusNotFound))

	return module.New(basePath, router), nil
}
