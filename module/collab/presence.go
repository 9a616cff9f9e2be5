package collab

import (
	"sort"

	"CProject/logger"
	"CProject/module/collab/model"
)

// JoinResult is handed back to the joining client.
type JoinResult struct {
	Color   string                 `json:"color"`
	Viewers []*model.PresenceEntry `json:"viewers"`
	Cursors []*model.CursorState   `json:"cursors"`
}

type presenceEvent struct {
	Action  string                 `json:"action"`
	FileID  string                 `json:"fileId"`
	User    *model.PresenceEntry   `json:"user"`
	Viewers []*model.PresenceEntry `json:"viewers"`
}

// JoinFile attaches a user to a file's collaboration context. A rejoin
// (duplicate tab, reconnect) replaces the previous entry rather than
// duplicating it: at most one PresenceEntry per (file, user).
// Authorization is the caller's problem; the tracker has none.
func (e *Engine) JoinFile(fileID, userID, username string, s Sender) *JoinResult {
	now := e.nowMS()

	e.mu.Lock()
	m := e.presence[fileID]
	if m == nil {
		m = make(map[string]*model.PresenceEntry)
		e.presence[fileID] = m
	}
	delete(m, userID)

	color := e.reg.Attach(fileID, userID, username, s)
	entry := &model.PresenceEntry{
		UserID:       userID,
		Username:     username,
		Color:        color,
		JoinedAt:     now,
		LastActivity: now,
	}
	m[userID] = entry

	viewers := snapshotViewers(m)
	cursors := snapshotCursors(e.cursors[fileID])
	e.mu.Unlock()

	e.reg.BroadcastToFile(fileID, Envelope{
		Type: EvtPresenceUpdate,
		Data: presenceEvent{Action: PresenceJoined, FileID: fileID, User: entry, Viewers: viewers},
	}, userID)

	logger.Infof("[Presence] join file=%s user=%s color=%s viewers=%d", fileID, userID, color, len(viewers))
	return &JoinResult{Color: color, Viewers: viewers, Cursors: cursors}
}

// LeaveFile removes the presence entry and the registry attachment.
// When the last viewer leaves, the file's cursor table goes with them so
// a later joiner never sees stale cursors.
func (e *Engine) LeaveFile(fileID, userID string) {
	e.mu.Lock()
	m := e.presence[fileID]
	if m == nil {
		e.mu.Unlock()
		return
	}
	entry, ok := m[userID]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(m, userID)
	if cm := e.cursors[fileID]; cm != nil {
		delete(cm, userID)
	}
	if len(m) == 0 {
		delete(e.presence, fileID)
		delete(e.cursors, fileID)
	}
	viewers := snapshotViewers(m)
	e.mu.Unlock()

	e.reg.Detach(fileID, userID)
	e.reg.BroadcastToFile(fileID, Envelope{
		Type: EvtPresenceUpdate,
		Data: presenceEvent{Action: PresenceLeft, FileID: fileID, User: entry, Viewers: viewers},
	}, userID)

	logger.Infof("[Presence] leave file=%s user=%s viewers=%d", fileID, userID, len(viewers))
}

// UpdateActivity refreshes the heartbeat timestamp. Heartbeats are
// silent: no broadcast, to avoid fan-out storms.
func (e *Engine) UpdateActivity(fileID, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.presence[fileID]; m != nil {
		if entry, ok := m[userID]; ok {
			entry.LastActivity = e.nowMS()
		}
	}
}

// FileViewers lists current viewers ordered by join time.
func (e *Engine) FileViewers(fileID string) []*model.PresenceEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshotViewers(e.presence[fileID])
}

// PresenceSnapshot copies the whole presence table, for the periodic
// best-effort snapshotter.
func (e *Engine) PresenceSnapshot() map[string][]*model.PresenceEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string][]*model.PresenceEntry, len(e.presence))
	for fileID, m := range e.presence {
		out[fileID] = snapshotViewers(m)
	}
	return out
}

func snapshotViewers(m map[string]*model.PresenceEntry) []*model.PresenceEntry {
	out := make([]*model.PresenceEntry, 0, len(m))
	for _, entry := range m {
		cp := *entry
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
