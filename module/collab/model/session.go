package model

import (
	"CProject/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// Session status values. The per-file state machine is
// none -> active -> ended; ended is terminal.
const (
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)

// Participant roles.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

// Edit action kinds recorded in the operation log.
const (
	OpInsert = "insert"
	OpDelete = "delete"
	OpRetain = "retain"
)

// Session collection field constants
const (
	SessionFieldID     = "_id"
	SessionFieldFileID = "file_id"
	SessionFieldStatus = "status"
)

// EditAction is the client-described edit. The engine records and orders
// actions but does not transform them; concurrent edits against the same
// base version must be rebased client-side.
type EditAction struct {
	Kind     string `bson:"kind" json:"kind"`
	Position int    `bson:"position" json:"position"`
	Content  string `bson:"content,omitempty" json:"content,omitempty"`
	Length   int    `bson:"length,omitempty" json:"length,omitempty"`
}

// Operation is one appended log record. Version is the session version
// at append time, before the increment.
type Operation struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"user_id" json:"userId"`
	Action    EditAction `bson:"action" json:"operation"`
	Version   int64      `bson:"version" json:"version"`
	Timestamp int64      `bson:"timestamp" json:"timestamp"`
}

type Participant struct {
	UserID   string `bson:"user_id" json:"userId"`
	Username string `bson:"username" json:"username"`
	Role     string `bson:"role" json:"role"`
	JoinedAt int64  `bson:"joined_at" json:"joinedAt"`
}

// Session is the editing-session aggregate: participants plus the
// bounded, version-ordered operation log.
type Session struct {
	ID           string        `bson:"_id" json:"id"`
	FileID       string        `bson:"file_id" json:"fileId"`
	FileName     string        `bson:"file_name" json:"fileName"`
	OwnerID      string        `bson:"owner_id" json:"ownerId"`
	OwnerName    string        `bson:"owner_name" json:"ownerName"`
	Participants []Participant `bson:"participants" json:"participants"`
	Operations   []Operation   `bson:"operations" json:"operations"`
	Version      int64         `bson:"version" json:"version"`
	Status       string        `bson:"status" json:"status"`
	CreatedAt    int64         `bson:"created_at" json:"createdAt"`
	EndedAt      int64         `bson:"ended_at,omitempty" json:"endedAt,omitempty"`
}

func (s *Session) GetTableName() string {
	return "collab_session"
}

func (s *Session) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(s.GetTableName())
}

// HasParticipant reports whether the user already joined this session.
func (s *Session) HasParticipant(userID string) bool {
	for i := range s.Participants {
		if s.Participants[i].UserID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand sessions out without
// exposing the engine's internal slices.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Participants = append([]Participant(nil), s.Participants...)
	cp.Operations = append([]Operation(nil), s.Operations...)
	return &cp
}
