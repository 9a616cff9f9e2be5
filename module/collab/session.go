package collab

import (
	"CProject/logger"
	"CProject/module/collab/model"
	"CProject/tools/errs"
	"CProject/tools/ids"
)

// CreateSession is an idempotent get-or-create: at most one active
// session exists per file, and a second create returns the first.
func (e *Engine) CreateSession(fileID, fileName, ownerID, ownerName string) *model.Session {
	e.mu.Lock()
	if sid, ok := e.activeByFile[fileID]; ok {
		if sess, ok := e.sessions[sid]; ok {
			out := sess.Clone()
			e.mu.Unlock()
			return out
		}
	}

	now := e.nowMS()
	sess := &model.Session{
		ID:        ids.GenerateString(),
		FileID:    fileID,
		FileName:  fileName,
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Participants: []model.Participant{{
			UserID:   ownerID,
			Username: ownerName,
			Role:     model.RoleOwner,
			JoinedAt: now,
		}},
		Operations: []model.Operation{},
		Version:    0,
		Status:     model.SessionStatusActive,
		CreatedAt:  now,
	}
	e.sessions[sess.ID] = sess
	e.activeByFile[fileID] = sess.ID
	out := sess.Clone()
	e.mu.Unlock()

	e.persistSession(out)
	logger.Infof("[Session] created id=%s file=%s owner=%s", sess.ID, fileID, ownerID)
	return out
}

// JoinSession adds the caller as an editor participant. Joining twice is
// a no-op; joining an ended session is an InvalidState error.
func (e *Engine) JoinSession(sessionID, userID, username string) (*model.Session, error) {
	e.mu.Lock()
	sess, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return nil, errs.ErrNotFound.WrapMsg("session", "id", sessionID)
	}
	if sess.Status != model.SessionStatusActive {
		e.mu.Unlock()
		return nil, errs.ErrInvalidState.WrapMsg("session not active", "id", sessionID)
	}
	changed := false
	if !sess.HasParticipant(userID) {
		sess.Participants = append(sess.Participants, model.Participant{
			UserID:   userID,
			Username: username,
			Role:     model.RoleEditor,
			JoinedAt: e.nowMS(),
		})
		changed = true
	}
	out := sess.Clone()
	e.mu.Unlock()

	if changed {
		e.persistSession(out)
		logger.Infof("[Session] join id=%s user=%s participants=%d", sessionID, userID, len(out.Participants))
	}
	return out, nil
}

// ApplyOperation appends an edit to the session log. The recorded
// version is the session version before the increment; that is the
// ordering contract reconciling clients rely on. The log keeps only the
// most recent OpLogLimit entries.
func (e *Engine) ApplyOperation(sessionID, userID string, action model.EditAction) (*model.Operation, error) {
	e.mu.Lock()
	sess, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return nil, errs.ErrNotFound.WrapMsg("session", "id", sessionID)
	}

	rec := model.Operation{
		ID:        ids.GenerateString(),
		UserID:    userID,
		Action:    action,
		Version:   sess.Version,
		Timestamp: e.nowMS(),
	}
	sess.Operations = append(sess.Operations, rec)
	sess.Version++
	if limit := e.cfg.OpLogLimit; len(sess.Operations) > limit {
		sess.Operations = append([]model.Operation(nil), sess.Operations[len(sess.Operations)-limit:]...)
	}
	fileID := sess.FileID
	out := sess.Clone()
	e.mu.Unlock()

	e.persistSession(out)
	e.reg.BroadcastToFile(fileID, Envelope{
		Type: EvtOperation,
		Data: map[string]any{"sessionId": sessionID, "fileId": fileID, "operation": rec},
	}, userID)
	return &rec, nil
}

// OperationsSince returns the retained log entries with
// version >= sinceVersion, in append order. A sinceVersion older than
// the retained window yields a partial log, not an error; such callers
// must fall back to a full resync through the file-content interface.
func (e *Engine) OperationsSince(sessionID string, sinceVersion int64) ([]model.Operation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, ok := e.sessions[sessionID]
	if !ok {
		return nil, errs.ErrNotFound.WrapMsg("session", "id", sessionID)
	}
	out := make([]model.Operation, 0, len(sess.Operations))
	for _, op := range sess.Operations {
		if op.Version >= sinceVersion {
			out = append(out, op)
		}
	}
	return out, nil
}

// GetSession returns a copy of the session.
func (e *Engine) GetSession(sessionID string) (*model.Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, ok := e.sessions[sessionID]
	if !ok {
		return nil, errs.ErrNotFound.WrapMsg("session", "id", sessionID)
	}
	return sess.Clone(), nil
}

// ActiveSessionForFile returns the file's active session, if any.
func (e *Engine) ActiveSessionForFile(fileID string) (*model.Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if sid, ok := e.activeByFile[fileID]; ok {
		if sess, ok := e.sessions[sid]; ok {
			return sess.Clone(), true
		}
	}
	return nil, false
}

// EndSession moves the session to its terminal state. Only the owner
// may end it.
func (e *Engine) EndSession(sessionID, userID string) error {
	e.mu.Lock()
	sess, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return errs.ErrNotFound.WrapMsg("session", "id", sessionID)
	}
	if sess.OwnerID != userID {
		e.mu.Unlock()
		return errs.ErrForbidden.WrapMsg("only the owner may end a session", "id", sessionID, "user", userID)
	}
	if sess.Status == model.SessionStatusEnded {
		e.mu.Unlock()
		return nil
	}
	sess.Status = model.SessionStatusEnded
	sess.EndedAt = e.nowMS()
	delete(e.activeByFile, sess.FileID)
	fileID := sess.FileID
	endedAt := sess.EndedAt
	out := sess.Clone()
	e.mu.Unlock()

	e.persistSession(out)
	e.reg.BroadcastToFile(fileID, Envelope{
		Type: EvtSessionEnded,
		Data: map[string]any{"sessionId": sessionID, "fileId": fileID, "endedBy": userID, "endedAt": endedAt},
	}, "")
	logger.Infof("[Session] ended id=%s file=%s by=%s", sessionID, fileID, userID)
	return nil
}
