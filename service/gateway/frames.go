package gateway

import (
	"encoding/json"
	"fmt"

	"CProject/module/collab/model"
)

// Inbound message types. The first frame on a connection must be auth;
// everything except ping is rejected until then.
const (
	MsgAuth         = "auth"
	MsgJoinFile     = "join_file"
	MsgLeaveFile    = "leave_file"
	MsgCursorUpdate = "cursor_update"
	MsgHeartbeat    = "heartbeat"
	MsgOperation    = "operation"
	MsgSync         = "sync"
	MsgLiveComment  = "live_comment"
	MsgMention      = "mention"
	MsgPing         = "ping"
)

// Server -> client ack/reply types (engine fan-out types live in the
// collab package).
const (
	AckAuth      = "auth_ack"
	AckJoin      = "join_ack"
	AckOperation = "operation_ack"
	AckSync      = "sync"
	AckPong      = "pong"
	AckError     = "error"
)

// Frame is the raw inbound envelope; Data is decoded per type with
// tools/decode.
type Frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("frame missing type")
	}
	return f, nil
}

// ---- typed payloads ----

type AuthPayload struct {
	Token string `json:"token"`
}

type JoinFilePayload struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

type LeaveFilePayload struct {
	FileID string `json:"fileId"`
}

type CursorPayload struct {
	FileID    string                 `json:"fileId"`
	Position  model.CursorPosition   `json:"position"`
	Selection *model.CursorSelection `json:"selection"`
}

type HeartbeatPayload struct {
	FileID string `json:"fileId"`
}

type OperationPayload struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Content  string `json:"content"`
	Length   int    `json:"length"`
}

type SyncPayload struct {
	SessionID    string `json:"sessionId"`
	SinceVersion int64  `json:"sinceVersion"`
}

type CommentPayload struct {
	FileID   string `json:"fileId"`
	Content  string `json:"content"`
	Position int    `json:"position"`
	ParentID string `json:"parentId"`
}

type MentionPayload struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}
