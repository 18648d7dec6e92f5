package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dreschagin/duf-monitor/internal/application/usecase"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

const historyPathPrefix = "/api/history"

// UsageAPIHandler обрабатывает API запросы текущего состояния и истории
type UsageAPIHandler struct {
	getCurrentUC *usecase.GetCurrentUsageUseCase
	getHistoryUC *usecase.GetUsageHistoryUseCase
	logger       *logger.Logger
}

// NewUsageAPIHandler создает новый handler
func NewUsageAPIHandler(
	getCurrentUC *usecase.GetCurrentUsageUseCase,
	getHistoryUC *usecase.GetUsageHistoryUseCase,
	logger *logger.Logger,
) *UsageAPIHandler {
	return &UsageAPIHandler{
		getCurrentUC: getCurrentUC,
		getHistoryUC: getHistoryUC,
		logger:       logger,
	}
}

// GetCurrent возвращает последний снимок каждой точки монтирования.
// Пустое хранилище дает пустой массив, не ошибку
func (h *UsageAPIHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	readings, err := h.getCurrentUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to get current usage", err)
		http.Error(w, "Failed to fetch current usage", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, readings)
}

// GetHistory возвращает историю использования точки монтирования.
// Точка монтирования закодирована в пути после /api/history,
// окно задается query параметром hours (по умолчанию 24)
func (h *UsageAPIHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mountpoint, err := extractMountpoint(r.URL.Path)
	if err != nil {
		http.Error(w, "Invalid mountpoint", http.StatusBadRequest)
		return
	}

	hours := 24
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		hours, err = strconv.Atoi(hoursStr)
		if err != nil || hours <= 0 {
			http.Error(w, "Invalid hours parameter", http.StatusBadRequest)
			return
		}
	}

	points, err := h.getHistoryUC.Execute(r.Context(), mountpoint, hours)
	if err != nil {
		h.logger.Error("Failed to get usage history", err, "mountpoint", mountpoint)
		http.Error(w, "Failed to fetch usage history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, points)
}

// extractMountpoint достает точку монтирования из пути запроса.
// "/api/history/var/log" -> "/var/log", "/api/history/" -> "/"
func extractMountpoint(path string) (string, error) {
	raw := strings.TrimPrefix(path, historyPathPrefix)
	if raw == "" {
		return "", fmt.Errorf("mountpoint is required")
	}

	mountpoint, err := url.PathUnescape(raw)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(mountpoint, "/") {
		mountpoint = "/" + mountpoint
	}

	return mountpoint, nil
}

// writeJSON отправляет JSON ответ
func writeJSON(w http.ResponseWriter, log *logger.Logger, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", err)
	}
}
