package collab

import (
	"sort"

	"CProject/logger"
	"CProject/module/collab/model"
)

// UpdateCursor overwrites the caller's cursor state wholesale and fans
// it out to the other viewers. No history, no interpolation: last write
// wins, which is safe because each user only writes their own cursor.
// A cursor update without presence indicates a join/cursor ordering bug
// upstream; it is tolerated with the palette's first color.
func (e *Engine) UpdateCursor(fileID, userID, username string, pos model.CursorPosition, sel *model.CursorSelection) {
	color, ok := e.reg.ColorOf(fileID, userID)
	if !ok {
		color = e.cfg.Palette[0]
		logger.Warnf("[Cursor] update without presence file=%s user=%s", fileID, userID)
	}

	state := &model.CursorState{
		UserID:    userID,
		Username:  username,
		Color:     color,
		Position:  pos,
		Selection: sel,
		UpdatedAt: e.nowMS(),
	}

	e.mu.Lock()
	m := e.cursors[fileID]
	if m == nil {
		m = make(map[string]*model.CursorState)
		e.cursors[fileID] = m
	}
	m[userID] = state
	e.mu.Unlock()

	e.reg.BroadcastToFile(fileID, Envelope{
		Type: EvtCursorUpdate,
		Data: map[string]any{"fileId": fileID, "cursor": state},
	}, userID)
}

// FileCursors lists the current cursor states for a file.
func (e *Engine) FileCursors(fileID string) []*model.CursorState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshotCursors(e.cursors[fileID])
}

func snapshotCursors(m map[string]*model.CursorState) []*model.CursorState {
	out := make([]*model.CursorState, 0, len(m))
	for _, state := range m {
		cp := *state
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
