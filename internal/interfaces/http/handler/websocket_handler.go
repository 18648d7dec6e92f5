package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/application/usecase"
	wsInfra "github.com/dreschagin/duf-monitor/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/duf-monitor/pkg/logger"
	"github.com/gorilla/websocket"
)

// WebSocketHandler обрабатывает WebSocket connections
type WebSocketHandler struct {
	hub            *wsInfra.Hub
	getCurrentUC   *usecase.GetCurrentUsageUseCase
	logger         *logger.Logger
	allowedOrigins map[string]struct{}
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler создает новый handler
func NewWebSocketHandler(
	hub *wsInfra.Hub,
	getCurrentUC *usecase.GetCurrentUsageUseCase,
	allowedOrigins []string,
	logger *logger.Logger,
) *WebSocketHandler {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	handler := &WebSocketHandler{
		hub:            hub,
		getCurrentUC:   getCurrentUC,
		logger:         logger,
		allowedOrigins: originMap,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     handler.checkOrigin,
	}

	return handler
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if _, ok := h.allowedOrigins["*"]; ok {
		return true
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	normalized := parsed.Scheme + "://" + parsed.Host
	_, ok := h.allowedOrigins[normalized]
	return ok
}

// HandleConnection обрабатывает новое WebSocket соединение.
// Первым сообщением клиент получает текущее состояние всех точек
// монтирования, дальше только live обновления по мере тиков
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", err)
		return
	}

	client := wsInfra.NewClient(h.hub, conn, h.logger)

	if readings, err := h.getCurrentUC.Execute(r.Context()); err == nil {
		client.Send(wsInfra.Message{
			Type: "usage_update",
			Data: &dto.UsageUpdateDTO{
				Timestamp: time.Now().UTC(),
				Disks:     readings,
			},
		})
	} else {
		h.logger.Warn("Failed to send initial state to WebSocket client", "error", err.Error())
	}

	h.hub.Register(client)

	// Запускаем pumps в отдельных goroutines
	go client.WritePump()
	go client.ReadPump()
}
