package api

import (
	"net/http"

	"github.com/JaimeStill/quill/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	runsHandler := domain.Runs.Handler()
	routes.Register(mux, runsHandler.Routes())
	routes.Register(mux, domain.Templates.Routes())
	mux.HandleFunc("GET /content-types", runsHandler.ContentTypes)

	storage := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		runtime.MaxListSize,
	)
	routes.Register(mux, storage.routes())
}
