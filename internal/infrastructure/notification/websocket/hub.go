package websocket

import (
	"sync"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// Hub управляет WebSocket клиентами и рассылает обновления
// Реализует интерфейс port.NotificationService
// Порядок доставки каждому клиенту совпадает с порядком публикации:
// единственная goroutine Run пишет в упорядоченные каналы клиентов
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для broadcast обновлений тика
	broadcast chan *dto.UsageUpdateDTO

	// Канал для broadcast событий алертов
	broadcastAlert chan *dto.AlertEventDTO

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для удаления клиентов
	unregister chan *Client

	// Канал остановки hub
	stop chan struct{}

	// Mutex для защиты clients map
	mu sync.RWMutex

	// Logger
	logger *logger.Logger
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		broadcast:      make(chan *dto.UsageUpdateDTO, 256),
		broadcastAlert: make(chan *dto.AlertEventDTO, 256),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		stop:           make(chan struct{}),
		logger:         logger,
	}
}

// Run запускает hub (должен быть запущен в отдельной goroutine)
func (h *Hub) Run() {
	h.logger.Info("WebSocket hub started")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client registered", "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", "total_clients", total)

		case update := <-h.broadcast:
			h.fanOut(Message{Type: "usage_update", Data: update})

		case event := <-h.broadcastAlert:
			h.fanOut(Message{Type: "alert_event", Data: event})
			h.logger.Debug("Alert event broadcasted to clients", "type", event.Type, "mountpoint", event.Mountpoint)

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket hub stopped")
			return
		}
	}
}

// fanOut рассылает сообщение всем клиентам.
// Клиент с заполненным каналом отключается, не задерживая остальных
func (h *Hub) fanOut(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
			// Сообщение отправлено
		default:
			// Канал клиента заполнен, закрываем соединение
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn("Client channel full, disconnected")
		}
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast отправляет обновление тика всем клиентам (реализация port.NotificationService)
func (h *Hub) Broadcast(update *dto.UsageUpdateDTO) {
	select {
	case h.broadcast <- update:
		// Обновление отправлено в канал
	default:
		h.logger.Warn("Broadcast channel full, dropping update")
	}
}

// BroadcastAlert отправляет событие алерта всем клиентам (реализация port.NotificationService)
func (h *Hub) BroadcastAlert(event *dto.AlertEventDTO) {
	select {
	case h.broadcastAlert <- event:
		// Событие отправлено в канал
	default:
		h.logger.Warn("Broadcast alert channel full, dropping event")
	}
}

// ClientCount возвращает количество подключенных клиентов (реализация port.NotificationService)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop останавливает hub и отключает всех клиентов
func (h *Hub) Stop() {
	close(h.stop)
}

// Message представляет сообщение для отправки клиенту
type Message struct {
	Type string      `json:"type"` // "usage_update" или "alert_event"
	Data interface{} `json:"data"`
}
