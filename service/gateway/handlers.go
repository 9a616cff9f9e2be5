package gateway

import (
	"CProject/logger"
	"CProject/module/collab"
	"CProject/module/collab/model"
	"CProject/tools/decode"
	"CProject/tools/errs"
	"CProject/tools/security"
)

func registerDefaultHandlers(d *Dispatcher) {
	d.Register(MsgAuth, handleAuth)
	d.Register(MsgJoinFile, handleJoinFile)
	d.Register(MsgLeaveFile, handleLeaveFile)
	d.Register(MsgCursorUpdate, handleCursor)
	d.Register(MsgHeartbeat, handleHeartbeat)
	d.Register(MsgOperation, handleOperation)
	d.Register(MsgSync, handleSync)
	d.Register(MsgLiveComment, handleLiveComment)
	d.Register(MsgMention, handleMention)
	d.Register(MsgPing, handlePing)
}

// handleAuth verifies the JWT and binds the identity to the connection.
// The engine trusts the verified claims completely.
func handleAuth(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[AuthPayload](f.Data)
	if err != nil {
		return errs.ErrInvalidArgument.WrapMsg("auth payload", "err", err)
	}
	id, err := security.Verify(s.jwt, p.Token)
	if err != nil {
		c.SendError(errs.CodeUnauthorized, "invalid token")
		return errs.ErrUnauthorized.WrapMsg("verify", "err", err)
	}

	if uid, _, ok := c.Identity(); ok && uid != id.UserID {
		c.SendError(errs.CodeInvalidState, "connection already bound to another user")
		return errs.ErrInvalidState.WrapMsg("rebind", "old", uid, "new", id.UserID)
	}

	c.SetIdentity(id.UserID, id.Username)
	s.engine.Registry().Register(id.UserID, c)

	logger.Infof("[Gateway] auth ok user=%s name=%s", id.UserID, id.Username)
	return c.SendEnvelope(collab.Envelope{
		Type: AckAuth,
		Data: map[string]any{"userId": id.UserID, "username": id.Username},
	})
}

func handleJoinFile(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[JoinFilePayload](f.Data)
	if err != nil || p.FileID == "" {
		return errs.ErrInvalidArgument.WrapMsg("join_file payload")
	}
	userID, username, _ := c.Identity()

	// A client joins one file at a time; switching files leaves the old one.
	if prev := c.CurrentFile(); prev != "" && prev != p.FileID {
		s.engine.LeaveFile(prev, userID)
	}

	res := s.engine.JoinFile(p.FileID, userID, username, c)
	c.SetCurrentFile(p.FileID)

	data := map[string]any{
		"fileId":  p.FileID,
		"color":   res.Color,
		"viewers": res.Viewers,
		"cursors": res.Cursors,
	}
	if sess, ok := s.engine.ActiveSessionForFile(p.FileID); ok {
		data["session"] = sess
	}
	return c.SendEnvelope(collab.Envelope{Type: AckJoin, Data: data})
}

func handleLeaveFile(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[LeaveFilePayload](f.Data)
	if err != nil || p.FileID == "" {
		return errs.ErrInvalidArgument.WrapMsg("leave_file payload")
	}
	userID, _, _ := c.Identity()
	s.engine.LeaveFile(p.FileID, userID)
	if c.CurrentFile() == p.FileID {
		c.SetCurrentFile("")
	}
	return nil
}

func handleCursor(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[CursorPayload](f.Data)
	if err != nil || p.FileID == "" {
		return errs.ErrInvalidArgument.WrapMsg("cursor payload")
	}
	userID, username, _ := c.Identity()
	s.engine.UpdateCursor(p.FileID, userID, username, p.Position, p.Selection)
	return nil
}

// Heartbeats only refresh activity; no reply, no broadcast.
func handleHeartbeat(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[HeartbeatPayload](f.Data)
	if err != nil {
		return errs.ErrInvalidArgument.WrapMsg("heartbeat payload")
	}
	fileID := p.FileID
	if fileID == "" {
		fileID = c.CurrentFile()
	}
	if fileID == "" {
		return nil
	}
	userID, _, _ := c.Identity()
	s.engine.UpdateActivity(fileID, userID)
	return nil
}

// handleOperation appends an edit to the file's session, creating the
// session (caller becomes owner) or joining it (as editor) as needed.
func handleOperation(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[OperationPayload](f.Data)
	if err != nil || p.FileID == "" || p.Kind == "" {
		return errs.ErrInvalidArgument.WrapMsg("operation payload")
	}
	userID, username, _ := c.Identity()

	sess, ok := s.engine.ActiveSessionForFile(p.FileID)
	if !ok {
		sess = s.engine.CreateSession(p.FileID, p.FileName, userID, username)
	} else if !sess.HasParticipant(userID) {
		if sess, err = s.engine.JoinSession(sess.ID, userID, username); err != nil {
			return err
		}
	}

	rec, err := s.engine.ApplyOperation(sess.ID, userID, model.EditAction{
		Kind:     p.Kind,
		Position: p.Position,
		Content:  p.Content,
		Length:   p.Length,
	})
	if err != nil {
		return err
	}
	return c.SendEnvelope(collab.Envelope{
		Type: AckOperation,
		Data: map[string]any{"sessionId": sess.ID, "operationId": rec.ID, "version": rec.Version},
	})
}

// handleSync replays retained operations for catch-up after reconnect.
// A partial log (sinceVersion older than the retained window) is a
// normal reply; the client must then request a full resync elsewhere.
func handleSync(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[SyncPayload](f.Data)
	if err != nil || p.SessionID == "" {
		return errs.ErrInvalidArgument.WrapMsg("sync payload")
	}
	ops, err := s.engine.OperationsSince(p.SessionID, p.SinceVersion)
	if err != nil {
		c.SendError(errs.CodeNotFound, "session not found")
		return err
	}
	return c.SendEnvelope(collab.Envelope{
		Type: AckSync,
		Data: map[string]any{"sessionId": p.SessionID, "operations": ops},
	})
}

func handleLiveComment(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[CommentPayload](f.Data)
	if err != nil || p.FileID == "" || p.Content == "" {
		return errs.ErrInvalidArgument.WrapMsg("live_comment payload")
	}
	userID, username, _ := c.Identity()
	s.engine.AddLiveComment(collab.CommentInput{
		FileID:   p.FileID,
		UserID:   userID,
		Username: username,
		Content:  p.Content,
		Position: p.Position,
		ParentID: p.ParentID,
	})
	// The live_comment broadcast includes the author; no separate ack.
	return nil
}

func handleMention(s *Server, c *Client, f *Frame) error {
	p, err := decode.DecodeMap[MentionPayload](f.Data)
	if err != nil || p.FileID == "" || p.UserID == "" {
		return errs.ErrInvalidArgument.WrapMsg("mention payload")
	}
	userID, username, _ := c.Identity()
	s.engine.CreateMention(collab.MentionInput{
		FileID:            p.FileID,
		FileName:          p.FileName,
		MentionedUserID:   p.UserID,
		MentionedUsername: p.Username,
		MentionedBy:       userID,
		MentionedByName:   username,
		Context:           p.Context,
		Position:          p.Position,
	})
	return nil
}

func handlePing(s *Server, c *Client, f *Frame) error {
	return c.SendEnvelope(collab.Envelope{
		Type: AckPong,
		Data: map[string]any{"ts": nowMilli()},
	})
}
