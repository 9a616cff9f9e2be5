package collab

import (
	"testing"
	"time"
)

func TestJoinFileReturnsColorAndRoster(t *testing.T) {
	e := newTestEngine(newFakeClock())

	r1 := e.JoinFile("f1", "u1", "alice", &fakeSender{})
	if r1.Color == "" {
		t.Fatalf("no color assigned")
	}
	if len(r1.Viewers) != 1 || r1.Viewers[0].UserID != "u1" {
		t.Fatalf("viewers = %+v, want just u1", r1.Viewers)
	}

	r2 := e.JoinFile("f1", "u2", "bob", &fakeSender{})
	if len(r2.Viewers) != 2 {
		t.Fatalf("second joiner sees %d viewers, want 2", len(r2.Viewers))
	}
	if r2.Color == r1.Color {
		t.Fatalf("both viewers got color %s", r2.Color)
	}
}

func TestJoinFileDuplicateKeepsSingleEntry(t *testing.T) {
	e := newTestEngine(newFakeClock())

	e.JoinFile("f1", "u1", "alice", &fakeSender{})
	r := e.JoinFile("f1", "u1", "alice", &fakeSender{})

	if len(r.Viewers) != 1 {
		t.Fatalf("rejoin left %d entries, want 1", len(r.Viewers))
	}
	if got := len(e.FileViewers("f1")); got != 1 {
		t.Fatalf("FileViewers = %d, want 1", got)
	}
}

func TestJoinBroadcastsToOthersNotSelf(t *testing.T) {
	e := newTestEngine(newFakeClock())
	s1, s2 := &fakeSender{}, &fakeSender{}

	e.JoinFile("f1", "u1", "alice", s1)
	e.JoinFile("f1", "u2", "bob", s2)

	if got := s1.countType(t, EvtPresenceUpdate); got != 1 {
		t.Fatalf("existing viewer saw %d presence updates, want 1", got)
	}
	if got := s2.countType(t, EvtPresenceUpdate); got != 0 {
		t.Fatalf("joiner received own join %d times", got)
	}
}

func TestLeaveFileBroadcastsAndCleansUp(t *testing.T) {
	e := newTestEngine(newFakeClock())
	s1, s2 := &fakeSender{}, &fakeSender{}

	e.JoinFile("f1", "u1", "alice", s1)
	e.JoinFile("f1", "u2", "bob", s2)
	e.LeaveFile("f1", "u2")

	if got := len(e.FileViewers("f1")); got != 1 {
		t.Fatalf("viewers after leave = %d, want 1", got)
	}
	if got := s1.countType(t, EvtPresenceUpdate); got != 2 {
		t.Fatalf("remaining viewer saw %d presence updates, want join+leave", got)
	}
	// leaving a file you are not in is a no-op
	e.LeaveFile("f1", "u2")
	e.LeaveFile("missing", "u1")
}

func TestLastViewerLeavingDropsCursorTable(t *testing.T) {
	e := newTestEngine(newFakeClock())

	e.JoinFile("f1", "u1", "alice", &fakeSender{})
	e.UpdateCursor("f1", "u1", "alice", cursorAt(3, 7), nil)
	if got := len(e.FileCursors("f1")); got != 1 {
		t.Fatalf("cursors before leave = %d, want 1", got)
	}

	e.LeaveFile("f1", "u1")

	if got := len(e.FileViewers("f1")); got != 0 {
		t.Fatalf("viewers after last leave = %d", got)
	}
	if got := len(e.FileCursors("f1")); got != 0 {
		t.Fatalf("cursor table survived the last viewer: %d entries", got)
	}
}

func TestUpdateActivityIsSilent(t *testing.T) {
	clk := newFakeClock()
	e := newTestEngine(clk)
	s1, s2 := &fakeSender{}, &fakeSender{}

	e.JoinFile("f1", "u1", "alice", s1)
	e.JoinFile("f1", "u2", "bob", s2)
	before := s1.countType(t, EvtPresenceUpdate)

	clk.Advance(30 * time.Second)
	e.UpdateActivity("f1", "u2")

	if got := s1.countType(t, EvtPresenceUpdate); got != before {
		t.Fatalf("heartbeat produced a broadcast")
	}
	viewers := e.FileViewers("f1")
	for _, v := range viewers {
		if v.UserID == "u2" && v.LastActivity == v.JoinedAt {
			t.Fatalf("heartbeat did not refresh LastActivity")
		}
	}
}

func TestDisconnectLeavesAllFiles(t *testing.T) {
	e := newTestEngine(newFakeClock())
	s := &fakeSender{}

	e.Registry().Register("u1", s)
	e.JoinFile("f1", "u1", "alice", s)
	e.JoinFile("f2", "u1", "alice", s)

	e.Disconnect("u1", s)

	if got := len(e.FileViewers("f1")) + len(e.FileViewers("f2")); got != 0 {
		t.Fatalf("%d presence entries survived disconnect", got)
	}
	e.Registry().BroadcastToUser("u1", Envelope{Type: "test_event"})
	if got := s.countType(t, "test_event"); got != 0 {
		t.Fatalf("per-user index still holds the dead connection")
	}
}
