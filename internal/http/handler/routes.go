package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rppapi/internal/service"
	"rppapi/internal/storage"
)

// Dependencies are the process-scoped resources handlers are built from.
type Dependencies struct {
	DB         *sql.DB
	Documents  service.DocumentService
	Products   service.ProductService
	Generation service.GenerationService
	Store      storage.Storage
	// PublicPrefix is the path generated PDFs are served under, e.g. /pdfs.
	PublicPrefix string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	docs := app.Group("/documents")
	docs.Get("", ListDocuments(d.Documents))
	docs.Post("", CreateDocument(d.Documents))
	docs.Get("/:id", GetDocument(d.Documents))
	docs.Put("/:id", UpdateDocument(d.Documents))
	docs.Delete("/:id", DeleteDocument(d.Documents))
	docs.Post("/:id/generate-pdf", GenerateDocumentPDF(d.Generation))
	docs.Get("/:id/download", DownloadDocument(d.Documents, d.Store, d.PublicPrefix))

	products := app.Group("/products")
	products.Get("", ListProducts(d.Products))
	products.Post("", CreateProduct(d.Products))
	products.Get("/:id", GetProduct(d.Products))
	products.Put("/:id", UpdateProduct(d.Products))
	products.Delete("/:id", DeleteProduct(d.Products))

	if d.Store != nil {
		app.Get(strings.TrimRight(d.PublicPrefix, "/")+"/:fileName", ServePDF(d.Store))
	}
}
