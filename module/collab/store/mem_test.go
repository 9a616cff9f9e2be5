package store

import (
	"context"
	"testing"

	"CProject/module/collab/model"
)

func TestMemStoreSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	sess := &model.Session{
		ID:      "s1",
		FileID:  "f1",
		OwnerID: "u1",
		Status:  model.SessionStatusActive,
		Version: 3,
		Operations: []model.Operation{
			{ID: "op1", UserID: "u1", Version: 0},
		},
	}
	if err := s.PutSession(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	// mutating the original must not leak into the store
	sess.Version = 99
	sess.Operations[0].UserID = "tampered"

	got, err := s.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 3 || got.Operations[0].UserID != "u1" {
		t.Fatalf("stored session shares memory with the caller: %+v", got)
	}

	if _, err := s.GetSession(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("missing session: %v", err)
	}

	if err := s.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSession(ctx, "s1"); !IsNotFound(err) {
		t.Fatalf("session survived delete: %v", err)
	}
	// deleting again stays a no-op
	if err := s.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestMemStoreActiveSessionByFile(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.PutSession(ctx, &model.Session{ID: "old", FileID: "f1", Status: model.SessionStatusEnded})
	s.PutSession(ctx, &model.Session{ID: "live", FileID: "f1", Status: model.SessionStatusActive})
	s.PutSession(ctx, &model.Session{ID: "other", FileID: "f2", Status: model.SessionStatusActive})

	got, err := s.ActiveSessionByFile(ctx, "f1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if got.ID != "live" {
		t.Fatalf("active session = %s, want live", got.ID)
	}

	if _, err := s.ActiveSessionByFile(ctx, "f3"); !IsNotFound(err) {
		t.Fatalf("file without sessions: %v", err)
	}
}

func TestMemStorePutIsUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.PutMention(ctx, &model.Mention{ID: "m1", MentionedUserID: "u1", Read: false})
	s.PutMention(ctx, &model.Mention{ID: "m1", MentionedUserID: "u1", Read: true})

	got, err := s.GetMention(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Read {
		t.Fatalf("second put did not replace the first")
	}
	list, _ := s.ListMentions(ctx)
	if len(list) != 1 {
		t.Fatalf("upsert produced %d entries", len(list))
	}
}

func TestMemStoreCommentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.PutComment(ctx, &model.Comment{ID: "c1", FileID: "f1", UserID: "u1"})
	s.PutComment(ctx, &model.Comment{ID: "c2", FileID: "f1", UserID: "u2"})

	list, err := s.ListComments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("comments = %d, want 2", len(list))
	}

	if err := s.DeleteComment(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetComment(ctx, "c1"); !IsNotFound(err) {
		t.Fatalf("comment survived delete: %v", err)
	}
	if _, err := s.GetComment(ctx, "c2"); err != nil {
		t.Fatalf("wrong comment deleted: %v", err)
	}
}
