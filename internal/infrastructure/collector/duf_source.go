package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/port"
)

// DufSource читает использование дисков из вывода `duf --json`
// Альтернативный источник для хостов, где показания duf считаются эталонными
type DufSource struct {
	hostname string
	binary   string
	timeout  time.Duration
}

// dufEntry соответствует одному объекту в JSON-выводе duf
type dufEntry struct {
	Device     string `json:"device"`
	MountPoint string `json:"mount_point"`
	FileSystem string `json:"file_system"`
	Total      uint64 `json:"total"`
	Used       uint64 `json:"used"`
	Free       uint64 `json:"free"`
}

// NewDufSource создает новый источник поверх бинаря duf
func NewDufSource(binary string, timeout time.Duration) *DufSource {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	if binary == "" {
		binary = "duf"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &DufSource{
		hostname: hostname,
		binary:   binary,
		timeout:  timeout,
	}
}

// Read запускает duf с ограничением по времени и разбирает его JSON
func (s *DufSource) Read(ctx context.Context) ([]port.DiskReading, error) {
	execCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := exec.CommandContext(execCtx, s.binary, "--json").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", s.binary, err)
	}

	entries, err := parseDufOutput(out)
	if err != nil {
		return nil, err
	}

	readings := make([]port.DiskReading, 0, len(entries))
	for _, e := range entries {
		if e.MountPoint == "" {
			continue
		}

		free := e.Free
		if free == 0 && e.Total >= e.Used {
			free = e.Total - e.Used
		}

		readings = append(readings, port.DiskReading{
			Hostname:   s.hostname,
			Mountpoint: e.MountPoint,
			Device:     e.Device,
			Fstype:     e.FileSystem,
			TotalBytes: e.Total,
			UsedBytes:  e.Used,
			FreeBytes:  free,
		})
	}

	return readings, nil
}

func parseDufOutput(out []byte) ([]dufEntry, error) {
	var entries []dufEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse duf output: %w", err)
	}
	return entries, nil
}
