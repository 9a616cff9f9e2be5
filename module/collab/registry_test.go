package collab

import (
	"testing"
)

func TestAttachAssignsDistinctColors(t *testing.T) {
	r := NewRegistry(nil)

	seen := make(map[string]bool)
	for _, uid := range []string{"u1", "u2", "u3", "u4"} {
		color := r.Attach("f1", uid, uid, &fakeSender{})
		if color == "" {
			t.Fatalf("empty color for %s", uid)
		}
		if seen[color] {
			t.Fatalf("color %s assigned twice", color)
		}
		seen[color] = true
	}
}

func TestAttachReusesColorsDeterministicallyWhenExhausted(t *testing.T) {
	palette := []string{"#111", "#222"}
	r := NewRegistry(palette)

	c1 := r.Attach("f1", "u1", "u1", &fakeSender{})
	c2 := r.Attach("f1", "u2", "u2", &fakeSender{})
	if c1 == c2 {
		t.Fatalf("first two viewers share color %s", c1)
	}

	c3 := r.Attach("f1", "u3", "u3", &fakeSender{})
	if c3 != palette[0] {
		t.Fatalf("third viewer color = %s, want deterministic reuse of %s", c3, palette[0])
	}
}

func TestReattachKeepsSingleViewer(t *testing.T) {
	r := NewRegistry(nil)
	r.Attach("f1", "u1", "u1", &fakeSender{})
	r.Attach("f1", "u1", "u1", &fakeSender{})
	if n := r.ViewerCount("f1"); n != 1 {
		t.Fatalf("viewer count = %d, want 1", n)
	}
}

func TestBroadcastToFileExcludesSender(t *testing.T) {
	r := NewRegistry(nil)
	s1, s2 := &fakeSender{}, &fakeSender{}
	r.Attach("f1", "u1", "u1", s1)
	r.Attach("f1", "u2", "u2", s2)

	r.BroadcastToFile("f1", Envelope{Type: "test_event"}, "u1")

	if got := s1.countType(t, "test_event"); got != 0 {
		t.Fatalf("sender received own broadcast %d times", got)
	}
	if got := s2.countType(t, "test_event"); got != 1 {
		t.Fatalf("sibling received %d broadcasts, want 1", got)
	}
}

func TestBroadcastContinuesPastDeadConnection(t *testing.T) {
	r := NewRegistry(nil)
	dead := &fakeSender{fail: true}
	live := &fakeSender{}
	r.Attach("f1", "u1", "u1", dead)
	r.Attach("f1", "u2", "u2", live)

	r.BroadcastToFile("f1", Envelope{Type: "test_event"}, "")

	if got := live.countType(t, "test_event"); got != 1 {
		t.Fatalf("live connection received %d broadcasts, want 1", got)
	}
}

func TestBroadcastUnknownTargetsAreZeroRecipients(t *testing.T) {
	r := NewRegistry(nil)
	// must not panic or error
	r.BroadcastToFile("missing", Envelope{Type: "test_event"}, "")
	r.BroadcastToUser("missing", Envelope{Type: "test_event"})
}

func TestBroadcastToUserReachesAllConnections(t *testing.T) {
	r := NewRegistry(nil)
	tab1, tab2 := &fakeSender{}, &fakeSender{}
	r.Register("u1", tab1)
	r.Register("u1", tab2)

	r.BroadcastToUser("u1", Envelope{Type: "mention"})

	if tab1.countType(t, "mention") != 1 || tab2.countType(t, "mention") != 1 {
		t.Fatalf("not every connection of the user was reached")
	}

	r.Unregister("u1", tab1)
	r.BroadcastToUser("u1", Envelope{Type: "mention"})
	if got := tab1.countType(t, "mention"); got != 1 {
		t.Fatalf("unregistered connection still receiving, got %d", got)
	}
	if got := tab2.countType(t, "mention"); got != 2 {
		t.Fatalf("remaining connection got %d, want 2", got)
	}
}

func TestDetachRemovesViewer(t *testing.T) {
	r := NewRegistry(nil)
	s := &fakeSender{}
	r.Attach("f1", "u1", "u1", s)
	r.Detach("f1", "u1")

	if n := r.ViewerCount("f1"); n != 0 {
		t.Fatalf("viewer count after detach = %d", n)
	}
	if _, ok := r.ColorOf("f1", "u1"); ok {
		t.Fatalf("color still assigned after detach")
	}
	if files := r.FilesOf(s); len(files) != 0 {
		t.Fatalf("FilesOf after detach = %v", files)
	}
}
