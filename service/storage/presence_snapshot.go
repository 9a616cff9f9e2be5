package storage

import (
	"context"
	"encoding/json"
	"time"

	"CProject/logger"
	"CProject/module/collab"
	rds "CProject/service/storage/redis"
)

// presence snapshot key: collab:presence:<fileID>
// Value: JSON viewer list, TTL a few snapshot intervals. Write-only
// recovery aid; the in-memory presence table stays authoritative and
// the snapshot is never read back as truth.
func presenceKey(fileID string) string { return "collab:presence:" + fileID }

// PresenceSnapshotter periodically dumps the engine's presence tables
// to redis, best-effort.
type PresenceSnapshotter struct {
	engine   *collab.Engine
	interval time.Duration
	ttl      time.Duration
}

func NewPresenceSnapshotter(e *collab.Engine, interval time.Duration) *PresenceSnapshotter {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PresenceSnapshotter{
		engine:   e,
		interval: interval,
		ttl:      3 * interval,
	}
}

func (p *PresenceSnapshotter) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.snapshotOnce(ctx)
		}
	}
}

func (p *PresenceSnapshotter) snapshotOnce(ctx context.Context) {
	rdb := rds.Get()
	if rdb == nil {
		return
	}
	for fileID, viewers := range p.engine.PresenceSnapshot() {
		b, err := json.Marshal(viewers)
		if err != nil {
			logger.Errorf("[PresenceSnapshot] marshal file=%s failed: %v", fileID, err)
			continue
		}
		if err := rdb.Set(ctx, presenceKey(fileID), b, p.ttl).Err(); err != nil {
			logger.Warnf("[PresenceSnapshot] set file=%s failed: %v", fileID, err)
		}
	}
}
