package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/notification"
	"github.com/corray333/backend-labs/auditadmin/internal/service/models/result"
	"github.com/corray333/backend-labs/auditadmin/internal/service/services/auditsvc"
	auditstats "github.com/corray333/backend-labs/auditadmin/internal/transport/http/audit_stats"
	classifystatus "github.com/corray333/backend-labs/auditadmin/internal/transport/http/classify_status"
	"github.com/corray333/backend-labs/auditadmin/internal/transport/http/dashboard"
	deliverytimeline "github.com/corray333/backend-labs/auditadmin/internal/transport/http/delivery_timeline"
	listaudits "github.com/corray333/backend-labs/auditadmin/internal/transport/http/list_audits"
	listnotifications "github.com/corray333/backend-labs/auditadmin/internal/transport/http/list_notifications"
	orderaudit "github.com/corray333/backend-labs/auditadmin/internal/transport/http/order_audit"
	ordertimeline "github.com/corray333/backend-labs/auditadmin/internal/transport/http/order_timeline"
	useraudits "github.com/corray333/backend-labs/auditadmin/internal/transport/http/user_audits"
	"github.com/corray333/backend-labs/auditadmin/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/auditadmin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// auditClient is the remote audit API every request-scoped hook wraps.
type auditClient interface {
	GetOrderAudit(ctx context.Context, orderID string, query audit.OrderAuditQuery) result.Result[audit.OrderAuditTrail]
	GetAllAudits(ctx context.Context, query audit.AllAuditsQuery) result.Result[audit.Page]
	GetUserAudits(ctx context.Context, userID string, query audit.UserAuditsQuery) result.Result[audit.UserAuditTrail]
	GetAuditStats(ctx context.Context, query audit.StatsQuery) result.Result[audit.Stats]
}

type notificationService interface {
	ListRecent(ctx context.Context, limit int) ([]notification.Notification, error)
}

type HTTPTransport struct {
	server        *http.Server
	router        *chi.Mux
	client        auditClient
	notifications notificationService
}

func NewHTTPTransport(client auditClient, notifications notificationService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:        server,
		router:        router,
		client:        client,
		notifications: notifications,
	}
}

func (h *HTTPTransport) Run() error {
	slog.Info("Starting HTTP server", "address", h.server.Addr)

	return h.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Handle("/metrics", promhttp.Handler())
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/orders/{orderId}/audit", h.getOrderAudit)
		r.Get("/orders/{orderId}/timeline", h.renderOrderTimeline)
		r.Get("/audits", h.listAudits)
		r.Get("/audits/stats", h.getAuditStats)
		r.Get("/audits/dashboard", h.getDashboard)
		r.Get("/users/{userId}/audits", h.getUserAudits)
		r.Post("/deliveries/timeline", deliverytimeline.RenderDeliveryTimeline)
		r.Get("/status/classify", classifystatus.ClassifyStatus)
		r.Get("/notifications", h.listNotifications)
	})
}

// newHook returns a hook with its own loading and error state, so
// concurrent requests never observe each other's failures.
func (h *HTTPTransport) newHook() *auditsvc.AuditService {
	return auditsvc.MustNewAuditService(auditsvc.WithClient(h.client))
}

func (h *HTTPTransport) getOrderAudit(w http.ResponseWriter, r *http.Request) {
	orderaudit.GetOrderAudit(w, r, h.newHook())
}

func (h *HTTPTransport) renderOrderTimeline(w http.ResponseWriter, r *http.Request) {
	ordertimeline.RenderOrderTimeline(w, r, h.newHook())
}

func (h *HTTPTransport) listAudits(w http.ResponseWriter, r *http.Request) {
	listaudits.ListAudits(w, r, h.newHook())
}

func (h *HTTPTransport) getAuditStats(w http.ResponseWriter, r *http.Request) {
	auditstats.GetAuditStats(w, r, h.newHook())
}

func (h *HTTPTransport) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard.GetDashboard(w, r, h.newHook(), h.newHook())
}

func (h *HTTPTransport) getUserAudits(w http.ResponseWriter, r *http.Request) {
	useraudits.GetUserAudits(w, r, h.newHook())
}

func (h *HTTPTransport) listNotifications(w http.ResponseWriter, r *http.Request) {
	listnotifications.ListNotifications(w, r, h.notifications)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
