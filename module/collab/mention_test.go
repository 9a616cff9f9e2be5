package collab

import (
	"context"
	"testing"
	"time"

	"CProject/module/collab/model"
)

func mentionFor(userID string) MentionInput {
	return MentionInput{
		FileID:            "f1",
		FileName:          "main.go",
		MentionedUserID:   userID,
		MentionedUsername: userID,
		MentionedBy:       "u9",
		MentionedByName:   "zoe",
		Context:           "// @" + userID + " look here",
		Position:          42,
	}
}

func TestCreateMentionDeliversToUserConnections(t *testing.T) {
	e := newTestEngine(newFakeClock())
	tab1, tab2 := &fakeSender{}, &fakeSender{}
	e.Registry().Register("u1", tab1)
	e.Registry().Register("u1", tab2)

	m := e.CreateMention(mentionFor("u1"))
	if m.ID == "" || m.Read {
		t.Fatalf("fresh mention = %+v", m)
	}

	if tab1.countType(t, EvtMention) != 1 || tab2.countType(t, EvtMention) != 1 {
		t.Fatalf("mention did not reach every connection of the user")
	}
}

type chanNotifier struct {
	got chan *model.Mention
}

func (n *chanNotifier) MentionCreated(_ context.Context, m *model.Mention) error {
	n.got <- m
	return nil
}

func TestCreateMentionHandsOffToNotifier(t *testing.T) {
	e := newTestEngine(newFakeClock())
	n := &chanNotifier{got: make(chan *model.Mention, 1)}
	e.SetNotifier(n)

	created := e.CreateMention(mentionFor("u1"))

	select {
	case m := <-n.got:
		if m.ID != created.ID {
			t.Fatalf("notifier saw mention %s, want %s", m.ID, created.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("notifier was never called")
	}
}

func TestUserMentionsNewestFirstAndFiltered(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(clk)

	first := e.CreateMention(mentionFor("u1"))
	clk.Advance(time.Minute)
	second := e.CreateMention(mentionFor("u1"))
	e.CreateMention(mentionFor("someone-else"))

	all := e.UserMentions("u1", false)
	if len(all) != 2 {
		t.Fatalf("mentions = %d, want 2", len(all))
	}
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("order = %s,%s, want newest first", all[0].ID, all[1].ID)
	}

	if !e.MarkMentionRead(second.ID, "u1") {
		t.Fatalf("mark read failed")
	}
	unread := e.UserMentions("u1", true)
	if len(unread) != 1 || unread[0].ID != first.ID {
		t.Fatalf("unread filter = %+v", unread)
	}
}

func TestMarkMentionReadIsIdempotent(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(clk)
	m := e.CreateMention(mentionFor("u1"))

	if !e.MarkMentionRead(m.ID, "u1") {
		t.Fatalf("first mark returned false")
	}
	readAt := e.UserMentions("u1", false)[0].ReadAt
	if readAt == 0 {
		t.Fatalf("ReadAt not set")
	}

	clk.Advance(time.Hour)
	if !e.MarkMentionRead(m.ID, "u1") {
		t.Fatalf("repeat mark returned false")
	}
	if got := e.UserMentions("u1", false)[0].ReadAt; got != readAt {
		t.Fatalf("repeat mark moved ReadAt from %d to %d", readAt, got)
	}
}

func TestMarkMentionReadScopedToOwner(t *testing.T) {
	e := newTestEngine(newFakeClock())
	m := e.CreateMention(mentionFor("u1"))

	if e.MarkMentionRead(m.ID, "intruder") {
		t.Fatalf("foreign user marked someone else's mention")
	}
	if e.MarkMentionRead("missing", "u1") {
		t.Fatalf("missing mention reported success")
	}
	if e.UserMentions("u1", true)[0].ID != m.ID {
		t.Fatalf("mention flipped to read by a foreign caller")
	}
}

func TestMarkAllMentionsRead(t *testing.T) {
	e := newTestEngine(newFakeClock())
	e.CreateMention(mentionFor("u1"))
	e.CreateMention(mentionFor("u1"))
	m := e.CreateMention(mentionFor("u1"))
	e.MarkMentionRead(m.ID, "u1")

	if got := e.MarkAllMentionsRead("u1"); got != 2 {
		t.Fatalf("marked = %d, want 2", got)
	}
	if got := len(e.UserMentions("u1", true)); got != 0 {
		t.Fatalf("%d unread mentions remain", got)
	}
	if got := e.MarkAllMentionsRead("u1"); got != 0 {
		t.Fatalf("second pass marked %d", got)
	}
}
