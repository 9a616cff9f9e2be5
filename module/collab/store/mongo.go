package store

import (
	"context"

	"CProject/module/collab/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore keeps one collection per entity, upsert-by-id writes.
type mongoStore struct {
	sessions *mongo.Collection
	mentions *mongo.Collection
	comments *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		sessions: db.Collection((&model.Session{}).GetTableName()),
		mentions: db.Collection((&model.Mention{}).GetTableName()),
		comments: db.Collection((&model.Comment{}).GetTableName()),
	}
}

func upsertByID(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	_, err := coll.ReplaceOne(ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	return errors.Wrapf(err, "upsert %s id=%s", coll.Name(), id)
}

func (s *mongoStore) PutSession(ctx context.Context, sess *model.Session) error {
	return upsertByID(ctx, s.sessions, sess.ID, sess)
}

func (s *mongoStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var out model.Session
	err := s.sessions.FindOne(ctx, bson.M{model.SessionFieldID: id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return &out, nil
}

func (s *mongoStore) ActiveSessionByFile(ctx context.Context, fileID string) (*model.Session, error) {
	var out model.Session
	err := s.sessions.FindOne(ctx, bson.M{
		model.SessionFieldFileID: fileID,
		model.SessionFieldStatus: model.SessionStatusActive,
	}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "active session by file")
	}
	return &out, nil
}

func (s *mongoStore) ListSessions(ctx context.Context) ([]*model.Session, error) {
	cur, err := s.sessions.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "list sessions")
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []*model.Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode sessions")
	}
	return out, nil
}

func (s *mongoStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.sessions.DeleteOne(ctx, bson.M{model.SessionFieldID: id})
	return errors.Wrap(err, "delete session")
}

func (s *mongoStore) PutMention(ctx context.Context, m *model.Mention) error {
	return upsertByID(ctx, s.mentions, m.ID, m)
}

func (s *mongoStore) GetMention(ctx context.Context, id string) (*model.Mention, error) {
	var out model.Mention
	err := s.mentions.FindOne(ctx, bson.M{model.MentionFieldID: id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get mention")
	}
	return &out, nil
}

func (s *mongoStore) ListMentions(ctx context.Context) ([]*model.Mention, error) {
	cur, err := s.mentions.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "list mentions")
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []*model.Mention
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode mentions")
	}
	return out, nil
}

func (s *mongoStore) DeleteMention(ctx context.Context, id string) error {
	_, err := s.mentions.DeleteOne(ctx, bson.M{model.MentionFieldID: id})
	return errors.Wrap(err, "delete mention")
}

func (s *mongoStore) PutComment(ctx context.Context, c *model.Comment) error {
	return upsertByID(ctx, s.comments, c.ID, c)
}

func (s *mongoStore) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	var out model.Comment
	err := s.comments.FindOne(ctx, bson.M{model.CommentFieldID: id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get comment")
	}
	return &out, nil
}

func (s *mongoStore) ListComments(ctx context.Context) ([]*model.Comment, error) {
	cur, err := s.comments.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []*model.Comment
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode comments")
	}
	return out, nil
}

func (s *mongoStore) DeleteComment(ctx context.Context, id string) error {
	_, err := s.comments.DeleteOne(ctx, bson.M{model.CommentFieldID: id})
	return errors.Wrap(err, "delete comment")
}
