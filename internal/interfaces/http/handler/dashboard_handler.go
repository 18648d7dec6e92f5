package handler

import (
	"net/http"

	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// DashboardHandler отдает главную страницу dashboard
// Страница статическая: данные она получает через /api и /ws
type DashboardHandler struct {
	page   []byte
	logger *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(page []byte, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		page:   page,
		logger: logger,
	}
}

// ShowDashboard отображает главную страницу dashboard
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(h.page); err != nil {
		h.logger.Error("Failed to write dashboard page", err)
	}
}
