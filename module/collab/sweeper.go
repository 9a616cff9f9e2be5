package collab

import (
	"context"
	"time"

	"CProject/logger"
	"CProject/module/collab/model"
	"CProject/tools/safe"
)

// Run drives the cleanup sweeper until ctx is done. Each tick runs the
// three retention passes; a panic in one pass cannot block the others.
func (e *Engine) Run(ctx context.Context) {
	t := time.NewTicker(e.cfg.SweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.SweepOnce()
		}
	}
}

// SweepOnce runs one sweep pass set. Exported so tests and operators
// can trigger it without the ticker.
func (e *Engine) SweepOnce() {
	now := e.now()
	safe.Call("sweep-presence", func() { e.sweepPresence(now) })
	safe.Call("sweep-sessions", func() { e.sweepSessions(now) })
	safe.Call("sweep-mentions", func() { e.sweepMentions(now) })
}

// sweepPresence evicts viewers whose last heartbeat is older than the
// staleness threshold. A silent connection is an implicit leave even if
// the socket is technically still open.
func (e *Engine) sweepPresence(now time.Time) {
	cutoff := now.Add(-e.cfg.PresenceStaleAfter).UnixMilli()

	type eviction struct{ fileID, userID string }
	var evicted []eviction

	e.mu.Lock()
	for fileID, m := range e.presence {
		for userID, entry := range m {
			if entry.LastActivity < cutoff {
				delete(m, userID)
				if cm := e.cursors[fileID]; cm != nil {
					delete(cm, userID)
				}
				evicted = append(evicted, eviction{fileID, userID})
			}
		}
		if len(m) == 0 {
			delete(e.presence, fileID)
			delete(e.cursors, fileID)
		}
	}
	e.mu.Unlock()

	for _, ev := range evicted {
		e.reg.Detach(ev.fileID, ev.userID)
		logger.Infof("[Sweeper] evicted stale presence file=%s user=%s", ev.fileID, ev.userID)
	}
}

// sweepSessions retires ended sessions past the retention window.
// Active sessions are never removed, regardless of age.
func (e *Engine) sweepSessions(now time.Time) {
	cutoff := now.Add(-e.cfg.SessionRetention).UnixMilli()

	var retired []string
	e.mu.Lock()
	for id, sess := range e.sessions {
		if sess.Status != model.SessionStatusEnded {
			continue
		}
		ref := sess.EndedAt
		if ref == 0 {
			ref = sess.CreatedAt
		}
		if ref < cutoff {
			delete(e.sessions, id)
			retired = append(retired, id)
		}
	}
	e.mu.Unlock()

	for _, id := range retired {
		if err := e.store.DeleteSession(context.Background(), id); err != nil {
			logger.Errorf("[Sweeper] delete session id=%s failed: %v", id, err)
		}
	}
	if len(retired) > 0 {
		logger.Infof("[Sweeper] retired sessions=%d", len(retired))
	}
}

// sweepMentions prunes mentions past the retention window, read or not.
func (e *Engine) sweepMentions(now time.Time) {
	cutoff := now.Add(-e.cfg.MentionRetention).UnixMilli()

	var pruned []string
	e.mu.Lock()
	for id, m := range e.mentions {
		if m.CreatedAt < cutoff {
			delete(e.mentions, id)
			pruned = append(pruned, id)
		}
	}
	e.mu.Unlock()

	for _, id := range pruned {
		if err := e.store.DeleteMention(context.Background(), id); err != nil {
			logger.Errorf("[Sweeper] delete mention id=%s failed: %v", id, err)
		}
	}
	if len(pruned) > 0 {
		logger.Infof("[Sweeper] pruned mentions=%d", len(pruned))
	}
}
