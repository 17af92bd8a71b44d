package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfchat/internal/repository"
	"pdfchat/internal/service"
)

// Deps are the collaborators the HTTP layer needs. Inspector may be nil when
// the datastore is unavailable; Gatherer may be nil to disable /metrics.
type Deps struct {
	Documents   service.DocumentService
	Chat        service.ChatService
	Diagnostics DiagnosticsReporter
	Inspector   repository.Inspector
	Gatherer    prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Root())
	app.Get("/test", Diagnostics(d.Diagnostics))

	app.Get("/health", HealthCheck(d.Inspector))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Get("/hello", Hello())
	api.Post("/upload_pdf", UploadPDF(d.Documents))
	api.Post("/chat", Chat(d.Chat))

	api.Get("/documents", ListDocuments(d.Documents))
	api.Get("/documents/:id", GetDocument(d.Documents))
	api.Get("/documents/:id/download", DownloadDocument(d.Documents))
}
