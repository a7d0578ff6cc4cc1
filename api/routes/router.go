package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jvaldezcruz/assetdesk-backend/api/controllers"
	"github.com/jvaldezcruz/assetdesk-backend/api/middleware"
	"github.com/jvaldezcruz/assetdesk-backend/internal/approvals"
	"github.com/jvaldezcruz/assetdesk-backend/internal/assignments"
	"github.com/jvaldezcruz/assetdesk-backend/internal/audit"
	"github.com/jvaldezcruz/assetdesk-backend/internal/capacity"
	"github.com/jvaldezcruz/assetdesk-backend/internal/catalog"
	"github.com/jvaldezcruz/assetdesk-backend/internal/employees"
	"github.com/jvaldezcruz/assetdesk-backend/internal/items"
	"github.com/jvaldezcruz/assetdesk-backend/internal/timeline"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/redis"
)

// Services bundles the wired domain services the router exposes.
type Services struct {
	Employees   employees.Service
	Catalog     catalog.Service
	Items       items.Service
	Capacity    capacity.Service
	Assignments assignments.Service
	Approvals   approvals.Service
	Audit       audit.Service
	Timeline    timeline.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	brokerP controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	checks := []controllers.ReadinessCheck{
		{Name: "database", Pinger: dbP},
		{Name: "pubsub", Pinger: brokerP},
	}
	if redisClient != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})

	r.Handle("/metrics", promhttp.Handler())

	writePolicy := middleware.NewWriteRateLimitPolicy(cfg.RateLimit.WriteWindow, cfg.RateLimit.WriteLimit)

	// A typed nil *redis.Client must stay a nil interface for the middleware
	// nil checks to work.
	var idemStore redis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	if redisClient != nil {
		idemStore = redisClient
		limiterStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Use(middleware.WriteRateLimit(writePolicy, limiterStore, logg))

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.EmployeeList(svcs.Employees, logg))
			r.Get("/{employeeId}", controllers.EmployeeGet(svcs.Employees, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", logg))
				r.Post("/", controllers.EmployeeCreate(svcs.Employees, logg))
				r.Patch("/{employeeId}", controllers.EmployeeUpdate(svcs.Employees, logg))
				r.Post("/{employeeId}/deactivate", controllers.EmployeeDeactivate(svcs.Employees, logg))
			})
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", controllers.ResourceList(svcs.Catalog, logg))
			r.Get("/{resourceId}", controllers.ResourceGet(svcs.Catalog, logg))
			r.Get("/{resourceId}/availability", controllers.ResourceAvailability(svcs.Capacity, logg))
			r.Get("/{resourceId}/items", controllers.ItemListByResource(svcs.Items, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", logg))
				r.Post("/", controllers.ResourceCreate(svcs.Catalog, logg))
				r.Patch("/{resourceId}", controllers.ResourceUpdate(svcs.Catalog, logg))
				r.Post("/{resourceId}/status", controllers.ResourceSetStatus(svcs.Catalog, logg))
				r.Delete("/{resourceId}", controllers.ResourceDelete(svcs.Catalog, logg))
				r.Post("/{resourceId}/items", controllers.ItemCreate(svcs.Items, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/{itemId}", controllers.ItemGet(svcs.Items, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", logg))
				r.Post("/{itemId}/maintenance", controllers.ItemSetMaintenance(svcs.Items, logg))
				r.Post("/{itemId}/restore", controllers.ItemRestore(svcs.Items, logg))
				r.Delete("/{itemId}", controllers.ItemDelete(svcs.Items, logg))
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", controllers.AssignmentList(svcs.Assignments, logg))
			r.Get("/{assignmentId}", controllers.AssignmentGet(svcs.Assignments, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, "manager", "admin"))
				r.Post("/", controllers.AssignmentCreate(svcs.Assignments, logg))
				r.Post("/{assignmentId}/return", controllers.AssignmentTransition(svcs.Assignments, enums.AssignmentStatusReturned, logg))
				r.Post("/{assignmentId}/lost", controllers.AssignmentTransition(svcs.Assignments, enums.AssignmentStatusLost, logg))
				r.Post("/{assignmentId}/damaged", controllers.AssignmentTransition(svcs.Assignments, enums.AssignmentStatusDamaged, logg))
				r.Post("/{assignmentId}/revoke", controllers.AssignmentRevoke(svcs.Assignments, logg))
			})
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Post("/", controllers.ApprovalRequestCreate(svcs.Approvals, logg))
			r.Get("/", controllers.ApprovalList(svcs.Approvals, logg))
			r.Get("/{requestId}", controllers.ApprovalGet(svcs.Approvals, logg))
			r.Post("/{requestId}/cancel", controllers.ApprovalCancel(svcs.Approvals, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, "manager", "admin"))
				r.Post("/{requestId}/approve", controllers.ApprovalApprove(svcs.Approvals, logg))
				r.Post("/{requestId}/reject", controllers.ApprovalReject(svcs.Approvals, logg))
			})
		})

		r.With(middleware.RequireRole("admin", logg)).Get("/audit", controllers.AuditList(svcs.Audit, logg))
		r.Get("/timeline", controllers.TimelineList(svcs.Timeline, logg))
	})

	return r
}
