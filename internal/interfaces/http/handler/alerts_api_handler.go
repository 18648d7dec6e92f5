package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreschagin/duf-monitor/internal/application/usecase"
	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

const alertsPathPrefix = "/api/alerts/"

// AlertsAPIHandler обрабатывает API запросы алертов
type AlertsAPIHandler struct {
	listAlertsUC  *usecase.ListAlertsUseCase
	acknowledgeUC *usecase.AcknowledgeAlertUseCase
	logger        *logger.Logger
}

// NewAlertsAPIHandler создает новый handler
func NewAlertsAPIHandler(
	listAlertsUC *usecase.ListAlertsUseCase,
	acknowledgeUC *usecase.AcknowledgeAlertUseCase,
	logger *logger.Logger,
) *AlertsAPIHandler {
	return &AlertsAPIHandler{
		listAlertsUC:  listAlertsUC,
		acknowledgeUC: acknowledgeUC,
		logger:        logger,
	}
}

// ListAlerts возвращает последние алерты (новые первыми)
// Query параметры: limit (опционально), status (опционально)
func (h *AlertsAPIHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		if err := valueobject.AlertStatus(status).Validate(); err != nil {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
	}

	alerts, err := h.listAlertsUC.Execute(r.Context(), limit, status)
	if err != nil {
		h.logger.Error("Failed to list alerts", err)
		http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, alerts)
}

// Acknowledge подтверждает активный алерт
// POST /api/alerts/{id}/acknowledge
// 404 если алерт не существует, 409 если он не в статусе active
func (h *AlertsAPIHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	alertID, ok := extractAcknowledgeID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	alert, err := h.acknowledgeUC.Execute(r.Context(), alertID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrAlertNotFound):
			http.Error(w, "Alert not found", http.StatusNotFound)
		case errors.Is(err, entity.ErrAlertNotActive):
			http.Error(w, "Alert is not active", http.StatusConflict)
		default:
			h.logger.Error("Failed to acknowledge alert", err, "alert_id", alertID)
			http.Error(w, "Failed to acknowledge alert", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, h.logger, alert)
}

// extractAcknowledgeID достает идентификатор алерта из пути
// "/api/alerts/{id}/acknowledge"
func extractAcknowledgeID(path string) (string, bool) {
	rest := strings.TrimPrefix(path, alertsPathPrefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "acknowledge" {
		return "", false
	}
	return parts[0], true
}
