package collab

import (
	"testing"
	"time"
)

func commentBy(userID, content string) CommentInput {
	return CommentInput{
		FileID:   "f1",
		UserID:   userID,
		Username: userID,
		Content:  content,
		Position: 10,
	}
}

func TestAddLiveCommentBroadcastIncludesAuthor(t *testing.T) {
	e := newTestEngine(newFakeClock())
	author, other := &fakeSender{}, &fakeSender{}
	e.JoinFile("f1", "u1", "alice", author)
	e.JoinFile("f1", "u2", "bob", other)

	c := e.AddLiveComment(commentBy("u1", "what does this do?"))
	if c.ID == "" || c.Resolved {
		t.Fatalf("fresh comment = %+v", c)
	}

	if author.countType(t, EvtLiveComment) != 1 {
		t.Fatalf("author did not receive their own comment")
	}
	if other.countType(t, EvtLiveComment) != 1 {
		t.Fatalf("other viewer did not receive the comment")
	}
}

func TestAddLiveCommentUsesPresenceColor(t *testing.T) {
	palette := []string{"#aaa", "#bbb", "#ccc"}
	e := newTestEngine(newFakeClock(), func(c *Config) { c.Palette = palette })

	joined := e.JoinFile("f1", "u1", "alice", &fakeSender{})
	c := e.AddLiveComment(commentBy("u1", "hm"))
	if c.Color != joined.Color {
		t.Fatalf("comment color = %s, presence color = %s", c.Color, joined.Color)
	}

	// no presence -> first palette color
	loose := e.AddLiveComment(commentBy("drive-by", "passing through"))
	if loose.Color != palette[0] {
		t.Fatalf("fallback color = %s, want %s", loose.Color, palette[0])
	}
}

func TestFileCommentsOldestFirst(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(clk)

	first := e.AddLiveComment(commentBy("u1", "one"))
	clk.Advance(time.Second)
	second := e.AddLiveComment(commentBy("u2", "two"))
	e.AddLiveComment(CommentInput{FileID: "other", UserID: "u1", Username: "u1", Content: "elsewhere"})

	got := e.FileComments("f1")
	if len(got) != 2 {
		t.Fatalf("comments = %d, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("order = %s,%s, want oldest first", got[0].ID, got[1].ID)
	}
}

func TestResolveComment(t *testing.T) {
	e := newTestEngine(newFakeClock())
	viewer := &fakeSender{}
	e.JoinFile("f1", "u2", "bob", viewer)
	c := e.AddLiveComment(commentBy("u1", "fix this"))

	if !e.ResolveComment(c.ID, "u2") {
		t.Fatalf("resolve returned false")
	}
	got := e.FileComments("f1")[0]
	if !got.Resolved || got.ResolvedBy != "u2" || got.ResolvedAt == 0 {
		t.Fatalf("resolved comment = %+v", got)
	}
	if viewer.countType(t, EvtCommentResolved) != 1 {
		t.Fatalf("resolution was not broadcast")
	}

	if e.ResolveComment("missing", "u2") {
		t.Fatalf("resolving a missing comment reported success")
	}
}

func TestDeleteLiveCommentAuthorOnly(t *testing.T) {
	e := newTestEngine(newFakeClock())
	viewer := &fakeSender{}
	e.JoinFile("f1", "u2", "bob", viewer)
	c := e.AddLiveComment(commentBy("u1", "temp note"))

	if e.DeleteLiveComment(c.ID, "u2") {
		t.Fatalf("non-author delete succeeded")
	}
	if got := len(e.FileComments("f1")); got != 1 {
		t.Fatalf("comment vanished after refused delete: %d left", got)
	}

	if !e.DeleteLiveComment(c.ID, "u1") {
		t.Fatalf("author delete failed")
	}
	if got := len(e.FileComments("f1")); got != 0 {
		t.Fatalf("%d comments remain after delete", got)
	}
	if viewer.countType(t, EvtCommentDeleted) != 1 {
		t.Fatalf("deletion was not broadcast")
	}

	if e.DeleteLiveComment(c.ID, "u1") {
		t.Fatalf("deleting twice reported success")
	}
}
