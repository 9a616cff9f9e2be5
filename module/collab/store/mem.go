package store

import (
	"context"
	"sync"

	"CProject/module/collab/model"
)

// memStore is the mutex-guarded in-memory implementation: the default
// when no mongo is configured, and the fixture for tests.
type memStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	mentions map[string]*model.Mention
	comments map[string]*model.Comment
}

func NewMemStore() Store {
	return &memStore{
		sessions: make(map[string]*model.Session),
		mentions: make(map[string]*model.Mention),
		comments: make(map[string]*model.Comment),
	}
}

func (s *memStore) PutSession(ctx context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *memStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.sessions[id]; ok {
		return v.Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *memStore) ActiveSessionByFile(ctx context.Context, fileID string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.sessions {
		if v.FileID == fileID && v.Status == model.SessionStatusActive {
			return v.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) ListSessions(ctx context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		out = append(out, v.Clone())
	}
	return out, nil
}

func (s *memStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memStore) PutMention(ctx context.Context, m *model.Mention) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.mentions[m.ID] = &cp
	return nil
}

func (s *memStore) GetMention(ctx context.Context, id string) (*model.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.mentions[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *memStore) ListMentions(ctx context.Context) ([]*model.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Mention, 0, len(s.mentions))
	for _, v := range s.mentions {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) DeleteMention(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mentions, id)
	return nil
}

func (s *memStore) PutComment(ctx context.Context, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

func (s *memStore) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.comments[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *memStore) ListComments(ctx context.Context) ([]*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Comment, 0, len(s.comments))
	for _, v := range s.comments {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}
