package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"daneth-messenger/contract"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs the server's own health: process
// CPU and memory plus how many clients currently hold a presence entry.
type HeartbeatWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, registry: registry, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("Heartbeat",
				"connected_clients", w.registry.Len(),
				"cpu_percent", cpu,
				"ram_bytes", rss,
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
