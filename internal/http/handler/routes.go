package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"libraryfront/internal/catalog"
	"libraryfront/internal/http/middleware"
	"libraryfront/internal/service"
)

// Dependencies are the collaborators the HTTP routes are wired to.
// DB and Gatherer may be nil.
type Dependencies struct {
	DB        *sql.DB
	Backend   BreakerState
	Gatherer  prometheus.Gatherer
	Catalog   service.CatalogService
	Views     *catalog.Registry
	Books     service.BookService
	Dashboard service.DashboardService
	Reports   service.ReportService
	Audit     service.AuditService

	AdminPageSize int
	UserPageSize  int
	PingInterval  time.Duration
	Now           func() time.Time
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.AdminPageSize <= 0 {
		d.AdminPageSize = 10
	}
	if d.UserPageSize <= 0 {
		d.UserPageSize = 30
	}

	app.Get("/health", HealthCheck(d.DB, d.Backend))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", Metrics(d.Gatherer))
	}

	api := app.Group("/api", middleware.NoStore())

	api.Get("/books", ListBooks(d.Catalog, d.AdminPageSize))
	api.Get("/user/books", ListBooks(d.Catalog, d.UserPageSize))
	api.Post("/books", AddBook(d.Books))
	api.Post("/books/bulk", BulkUpload(d.Books))
	api.Put("/books/:id", EditBook(d.Books))
	api.Delete("/books/:id", DeleteBook(d.Books))
	api.Get("/books/:id/download", DownloadBook(d.Books))

	views := api.Group("/views")
	views.Post("/", OpenView(d.Views))
	views.Get("/:id", GetView(d.Views))
	views.Delete("/:id", CloseView(d.Views))
	views.Get("/:id/events", ViewEvents(d.Views, d.PingInterval))
	views.Post("/:id/search", SearchView(d.Views))
	views.Post("/:id/next", NextPage(d.Views))
	views.Post("/:id/prev", PrevPage(d.Views))
	views.Post("/:id/page", GoToPage(d.Views))
	views.Post("/:id/filters", ApplyFilters(d.Views))
	views.Post("/:id/refresh", RefreshView(d.Views))

	api.Get("/dashboard", GetDashboard(d.Dashboard, d.Now))
	api.Get("/reports/:kind", GetReport(d.Reports, d.Now))
	api.Get("/audit", ListAudit(d.Audit))
}
