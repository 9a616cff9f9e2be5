package collab

import (
	"encoding/json"
)

// Outbound message types. Every engine -> client message is an
// Envelope{Type, Data} serialized as JSON.
const (
	EvtPresenceUpdate  = "presence_update"
	EvtCursorUpdate    = "cursor_update"
	EvtOperation       = "operation"
	EvtSessionEnded    = "session_ended"
	EvtMention         = "mention"
	EvtLiveComment     = "live_comment"
	EvtCommentResolved = "comment_resolved"
	EvtCommentDeleted  = "comment_deleted"
)

// Presence actions carried in a presence_update.
const (
	PresenceJoined = "joined"
	PresenceLeft   = "left"
)

type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
