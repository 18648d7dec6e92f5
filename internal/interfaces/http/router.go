package http

import (
	"io/fs"
	"net/http"

	"github.com/dreschagin/duf-monitor/internal/interfaces/http/handler"
	"github.com/dreschagin/duf-monitor/internal/interfaces/http/middleware"
	"github.com/dreschagin/duf-monitor/pkg/config"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux              *http.ServeMux
	dashboardHandler *handler.DashboardHandler
	websocketHandler *handler.WebSocketHandler
	usageAPIHandler  *handler.UsageAPIHandler
	alertsAPIHandler *handler.AlertsAPIHandler
	server           config.ServerConfig
	logger           *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	dashboardHandler *handler.DashboardHandler,
	websocketHandler *handler.WebSocketHandler,
	usageAPIHandler *handler.UsageAPIHandler,
	alertsAPIHandler *handler.AlertsAPIHandler,
	server config.ServerConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		dashboardHandler: dashboardHandler,
		websocketHandler: websocketHandler,
		usageAPIHandler:  usageAPIHandler,
		alertsAPIHandler: alertsAPIHandler,
		server:           server,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Static assets are embedded into the binary.
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health endpoints for probes.
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Dashboard
	rt.mux.HandleFunc("/", rt.dashboardHandler.ShowDashboard)

	// WebSocket
	rt.mux.HandleFunc("/ws", rt.websocketHandler.HandleConnection)

	// API endpoints
	rt.mux.HandleFunc("/api/current", rt.usageAPIHandler.GetCurrent)
	rt.mux.HandleFunc("/api/history/", rt.usageAPIHandler.GetHistory)
	rt.mux.HandleFunc("/api/alerts", rt.alertsAPIHandler.ListAlerts)

	// Acknowledge защищен per-IP rate limiter: единственная мутирующая
	// операция наружного API
	ackLimiter := middleware.NewIPRateLimiter(rt.server.AckRatePerSec, rt.server.AckRateBurst)
	rt.mux.Handle("/api/alerts/", middleware.RateLimit(ackLimiter)(http.HandlerFunc(rt.alertsAPIHandler.Acknowledge)))

	// Применяем middleware
	var h http.Handler = rt.mux
	h = middleware.Logger(rt.logger)(h)
	h = middleware.Recovery(rt.logger)(h)

	return h
}
