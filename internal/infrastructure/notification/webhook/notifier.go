package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// Notifier реализует port.AlertNotifier через HTTP webhook.
// Событие срабатывания алерта отправляется POST запросом с JSON телом
type Notifier struct {
	url         string
	maxAttempts int
	client      *http.Client
	logger      *logger.Logger
}

// NewNotifier создает новый webhook notifier
func NewNotifier(url string, timeout time.Duration, maxAttempts int, log *logger.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &Notifier{
		url:         url,
		maxAttempts: maxAttempts,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Notify отправляет событие алерта на webhook URL с ограниченным числом
// повторов. Неуспех после всех попыток возвращается как ошибка,
// вызывающая сторона логирует и продолжает работу
func (n *Notifier) Notify(ctx context.Context, event *dto.AlertEventDTO) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if err := n.post(ctx, payload); err != nil {
			lastErr = err
			n.logger.Warn("Webhook delivery attempt failed",
				"attempt", attempt,
				"max_attempts", n.maxAttempts,
				"error", err.Error())

			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		n.logger.Info("Webhook delivered",
			"mountpoint", event.Mountpoint,
			"type", event.Type)
		return nil
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", n.maxAttempts, lastErr)
}

func (n *Notifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
