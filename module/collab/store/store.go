package store

import (
	"context"
	"errors"

	"CProject/module/collab/model"
)

// ErrNotFound is returned by Get* when no entity has the given id.
var ErrNotFound = errors.New("store: not found")

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Store is the per-entity persistence behind the engine. Writes are
// upsert-by-id; the engine treats every call as best-effort and stays on
// its in-memory state when the backing store is down.
type Store interface {
	PutSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ActiveSessionByFile(ctx context.Context, fileID string) (*model.Session, error)
	ListSessions(ctx context.Context) ([]*model.Session, error)
	DeleteSession(ctx context.Context, id string) error

	PutMention(ctx context.Context, m *model.Mention) error
	GetMention(ctx context.Context, id string) (*model.Mention, error)
	ListMentions(ctx context.Context) ([]*model.Mention, error)
	DeleteMention(ctx context.Context, id string) error

	PutComment(ctx context.Context, c *model.Comment) error
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	ListComments(ctx context.Context) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}
