package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/application/usecase"
	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
	wsInfra "github.com/dreschagin/duf-monitor/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/duf-monitor/internal/interfaces/http/handler"
	"github.com/dreschagin/duf-monitor/pkg/config"
	"github.com/dreschagin/duf-monitor/pkg/logger"
	"github.com/gorilla/websocket"
)

type memorySnapshotRepo struct {
	mu        sync.RWMutex
	snapshots []*entity.DiskSnapshot
}

func (r *memorySnapshotRepo) SaveBatch(_ context.Context, batch []*entity.DiskSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, batch...)
	return nil
}

func (r *memorySnapshotRepo) FindCurrent(_ context.Context) ([]*entity.DiskSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := make(map[string]*entity.DiskSnapshot)
	for _, s := range r.snapshots {
		current, ok := latest[s.Mountpoint()]
		if !ok || s.CollectedAt().After(current.CollectedAt()) {
			latest[s.Mountpoint()] = s
		}
	}
	result := make([]*entity.DiskSnapshot, 0, len(latest))
	for _, s := range latest {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Mountpoint() < result[j].Mountpoint()
	})
	return result, nil
}

func (r *memorySnapshotRepo) FindHistory(_ context.Context, mountpoint string, timeRange valueobject.TimeRange) ([]*entity.DiskSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entity.DiskSnapshot, 0)
	for _, s := range r.snapshots {
		if s.Mountpoint() == mountpoint && timeRange.Contains(s.CollectedAt()) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CollectedAt().Before(result[j].CollectedAt())
	})
	return result, nil
}

func (r *memorySnapshotRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type memoryAlertRepo struct {
	mu     sync.RWMutex
	alerts []*entity.Alert
}

func (r *memoryAlertRepo) Save(_ context.Context, alert *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *memoryAlertRepo) FindByID(_ context.Context, id string) (*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, alert := range r.alerts {
		if alert.ID() == id {
			return alert, nil
		}
	}
	return nil, entity.ErrAlertNotFound
}

func (r *memoryAlertRepo) FindRecent(_ context.Context, limit int, status *valueobject.AlertStatus) ([]*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entity.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		if status != nil && alert.Status() != *status {
			continue
		}
		result = append(result, alert)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TriggeredAt().After(result[j].TriggeredAt())
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryAlertRepo) FindOpen(_ context.Context) ([]*entity.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entity.Alert, 0)
	for _, alert := range r.alerts {
		if alert.IsOpen() {
			result = append(result, alert)
		}
	}
	return result, nil
}

func (r *memoryAlertRepo) Acknowledge(_ context.Context, id string, at time.Time) (*entity.Alert, error) {
	alert, err := r.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := alert.Acknowledge(at); err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *memoryAlertRepo) MarkResolved(_ context.Context, id string, at time.Time) (*entity.Alert, error) {
	alert, err := r.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := alert.Resolve(at); err != nil {
		return nil, err
	}
	return alert, nil
}

type testEnv struct {
	server    *httptest.Server
	snapshots *memorySnapshotRepo
	alerts    *memoryAlertRepo
	hub       *wsInfra.Hub
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New("error")
	snapshots := &memorySnapshotRepo{}
	alerts := &memoryAlertRepo{}

	hub := wsInfra.NewHub(log)
	go hub.Run()
	t.Cleanup(hub.Stop)

	getCurrentUC := usecase.NewGetCurrentUsageUseCase(snapshots, log)
	getHistoryUC := usecase.NewGetUsageHistoryUseCase(snapshots, nil, 8760, log)
	listAlertsUC := usecase.NewListAlertsUseCase(alerts, 50, 500, log)
	acknowledgeUC := usecase.NewAcknowledgeAlertUseCase(alerts, log)

	page, err := DashboardPage()
	if err != nil {
		t.Fatalf("load dashboard page: %v", err)
	}

	router := NewRouter(
		handler.NewDashboardHandler(page, log),
		handler.NewWebSocketHandler(hub, getCurrentUC, []string{"*"}, log),
		handler.NewUsageAPIHandler(getCurrentUC, getHistoryUC, log),
		handler.NewAlertsAPIHandler(listAlertsUC, acknowledgeUC, log),
		config.ServerConfig{AckRatePerSec: 100, AckRateBurst: 100},
		log,
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	return &testEnv{server: server, snapshots: snapshots, alerts: alerts, hub: hub}
}

func seedSnapshot(t *testing.T, env *testEnv, mountpoint string, usedPercent float64, collectedAt time.Time) {
	t.Helper()
	total := uint64(1000)
	used := uint64(usedPercent * 10)
	s := entity.NewDiskSnapshot("host-1", mountpoint, "/dev/sda1", "ext4", total, used, total-used, collectedAt)
	if err := env.snapshots.SaveBatch(context.Background(), []*entity.DiskSnapshot{s}); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

func TestE2EHealthEndpoints(t *testing.T) {
	env := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(env.server.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, resp.StatusCode)
		}
	}
}

func TestE2EDashboardPage(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for dashboard, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %s", ct)
	}
}

func TestE2ECurrentUsage(t *testing.T) {
	env := newTestServer(t)
	now := time.Now().UTC()

	seedSnapshot(t, env, "/", 50, now.Add(-time.Minute))
	seedSnapshot(t, env, "/", 55, now)
	seedSnapshot(t, env, "/data", 70, now)

	resp, err := http.Get(env.server.URL + "/api/current")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var readings []*dto.DiskReadingDTO
	if err := json.NewDecoder(resp.Body).Decode(&readings); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 mountpoints, got %d", len(readings))
	}

	// Для "/" виден только последний снимок
	for _, r := range readings {
		if r.Mountpoint == "/" && r.UsagePercent != 55 {
			t.Fatalf("expected latest snapshot for /, got %.1f%%", r.UsagePercent)
		}
	}
}

func TestE2ECurrentUsageEmptyStorage(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.server.URL + "/api/current")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for empty storage, got %d", resp.StatusCode)
	}

	var readings []*dto.DiskReadingDTO
	if err := json.NewDecoder(resp.Body).Decode(&readings); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if readings == nil || len(readings) != 0 {
		t.Fatalf("expected empty array, got %v", readings)
	}
}

func TestE2EUsageHistory(t *testing.T) {
	env := newTestServer(t)
	now := time.Now().UTC()

	seedSnapshot(t, env, "/data", 60, now.Add(-2*time.Hour))
	seedSnapshot(t, env, "/data", 65, now.Add(-time.Hour))
	seedSnapshot(t, env, "/data", 70, now.Add(-10*time.Minute))
	seedSnapshot(t, env, "/data", 40, now.Add(-48*time.Hour)) // вне окна

	resp, err := http.Get(env.server.URL + "/api/history/data?hours=24")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var points []*dto.HistoryPointDTO
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points in 24h window, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Fatal("expected ascending timestamps")
		}
	}
}

func TestE2EUsageHistoryUnknownMountpoint(t *testing.T) {
	env := newTestServer(t)

	resp, err := http.Get(env.server.URL + "/api/history/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for unknown mountpoint, got %d", resp.StatusCode)
	}

	var points []*dto.HistoryPointDTO
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("expected empty history, got %d points", len(points))
	}
}

func TestE2EUsageHistoryInvalidHours(t *testing.T) {
	env := newTestServer(t)

	for _, query := range []string{"hours=0", "hours=-5", "hours=abc"} {
		resp, err := http.Get(env.server.URL + "/api/history/data?" + query)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", query, resp.StatusCode)
		}
	}
}

func TestE2EAlertsListAndFilter(t *testing.T) {
	env := newTestServer(t)
	now := time.Now().UTC()

	first := entity.NewAlert("host-1", "/data", 90, 95, now.Add(-time.Hour))
	second := entity.NewAlert("host-1", "/var", 90, 93, now)
	if err := second.Acknowledge(now); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	for _, alert := range []*entity.Alert{first, second} {
		if err := env.alerts.Save(context.Background(), alert); err != nil {
			t.Fatalf("seed alert: %v", err)
		}
	}

	resp, err := http.Get(env.server.URL + "/api/alerts")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var alerts []*dto.AlertDTO
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	// Новые первыми
	if alerts[0].Mountpoint != "/var" {
		t.Fatalf("expected newest alert first, got %s", alerts[0].Mountpoint)
	}

	filtered, err := http.Get(env.server.URL + "/api/alerts?status=active")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer filtered.Body.Close()

	var activeAlerts []*dto.AlertDTO
	if err := json.NewDecoder(filtered.Body).Decode(&activeAlerts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(activeAlerts) != 1 || activeAlerts[0].Status != "active" {
		t.Fatalf("expected 1 active alert, got %+v", activeAlerts)
	}

	bad, err := http.Get(env.server.URL + "/api/alerts?status=exploded")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", bad.StatusCode)
	}
}

func TestE2EAcknowledgeAlert(t *testing.T) {
	env := newTestServer(t)

	alert := entity.NewAlert("host-1", "/data", 90, 95, time.Now().UTC())
	if err := env.alerts.Save(context.Background(), alert); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	ackURL := env.server.URL + "/api/alerts/" + alert.ID() + "/acknowledge"

	resp, err := http.Post(ackURL, "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var acked dto.AlertDTO
	if err := json.NewDecoder(resp.Body).Decode(&acked); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if acked.Status != "acknowledged" || acked.AcknowledgedAt == nil {
		t.Fatalf("expected acknowledged alert, got %+v", acked)
	}

	// Повторное подтверждение конфликтует
	conflict, err := http.Post(ackURL, "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	conflict.Body.Close()
	if conflict.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for double acknowledge, got %d", conflict.StatusCode)
	}

	// Несуществующий алерт
	missing, err := http.Post(env.server.URL+"/api/alerts/does-not-exist/acknowledge", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown alert, got %d", missing.StatusCode)
	}

	// GET на acknowledge запрещен
	get, err := http.Get(ackURL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET acknowledge, got %d", get.StatusCode)
	}
}

func TestE2EWebSocketInitialStateAndBroadcast(t *testing.T) {
	env := newTestServer(t)
	now := time.Now().UTC()
	seedSnapshot(t, env, "/", 55, now)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Первое сообщение: текущее состояние
	var initial wsInfra.Message
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial message: %v", err)
	}
	if initial.Type != "usage_update" {
		t.Fatalf("expected usage_update, got %s", initial.Type)
	}

	// Live обновление после тика
	env.hub.Broadcast(&dto.UsageUpdateDTO{Timestamp: now, Disks: []*dto.DiskReadingDTO{{Mountpoint: "/", UsagePercent: 60}}})

	var live wsInfra.Message
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&live); err != nil {
		t.Fatalf("read live message: %v", err)
	}
	if live.Type != "usage_update" {
		t.Fatalf("expected usage_update, got %s", live.Type)
	}
}
