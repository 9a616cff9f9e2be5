package model

import (
	"CProject/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// Comment collection field constants
const (
	CommentFieldID        = "_id"
	CommentFieldFileID    = "file_id"
	CommentFieldCreatedAt = "created_at"
)

// Comment is a positionally-anchored live comment. ParentID forms a
// shallow reply chain. Deleted only by its author.
type Comment struct {
	ID         string `bson:"_id" json:"id"`
	FileID     string `bson:"file_id" json:"fileId"`
	UserID     string `bson:"user_id" json:"userId"`
	Username   string `bson:"username" json:"username"`
	Color      string `bson:"color" json:"color"`
	Content    string `bson:"content" json:"content"`
	Position   int    `bson:"position" json:"position"`
	ParentID   string `bson:"parent_id,omitempty" json:"parentId,omitempty"`
	Resolved   bool   `bson:"resolved" json:"resolved"`
	CreatedAt  int64  `bson:"created_at" json:"createdAt"`
	ResolvedBy string `bson:"resolved_by,omitempty" json:"resolvedBy,omitempty"`
	ResolvedAt int64  `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

func (c *Comment) GetTableName() string {
	return "collab_comment"
}

func (c *Comment) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(c.GetTableName())
}
