package model

import (
	"CProject/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mention collection field constants
const (
	MentionFieldID              = "_id"
	MentionFieldMentionedUserID = "mentioned_user_id"
	MentionFieldRead            = "read"
	MentionFieldCreatedAt       = "created_at"
)

// Mention is an @-mention addressed to one user, independent of any
// session. Mutated only by marking read; removed only by retention
// pruning.
type Mention struct {
	ID                string `bson:"_id" json:"id"`
	FileID            string `bson:"file_id" json:"fileId"`
	FileName          string `bson:"file_name" json:"fileName"`
	MentionedUserID   string `bson:"mentioned_user_id" json:"mentionedUserId"`
	MentionedUsername string `bson:"mentioned_username" json:"mentionedUsername"`
	MentionedBy       string `bson:"mentioned_by" json:"mentionedBy"`
	MentionedByName   string `bson:"mentioned_by_name" json:"mentionedByName"`
	Context           string `bson:"context,omitempty" json:"context,omitempty"`
	Position          int    `bson:"position" json:"position"`
	Read              bool   `bson:"read" json:"read"`
	CreatedAt         int64  `bson:"created_at" json:"createdAt"`
	ReadAt            int64  `bson:"read_at,omitempty" json:"readAt,omitempty"`
}

func (m *Mention) GetTableName() string {
	return "collab_mention"
}

func (m *Mention) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(m.GetTableName())
}
