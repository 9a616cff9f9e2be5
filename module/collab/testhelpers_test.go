package collab

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"CProject/module/collab/store"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeSender records everything delivered to it; flip fail to simulate
// a dead connection.
type fakeSender struct {
	mu   sync.Mutex
	msgs [][]byte
	fail bool
}

func (f *fakeSender) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection closed")
	}
	cp := append([]byte(nil), data...)
	f.msgs = append(f.msgs, cp)
	return nil
}

type recorded struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (f *fakeSender) envelopes(t *testing.T) []recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recorded, 0, len(f.msgs))
	for _, raw := range f.msgs {
		var r recorded
		if err := json.Unmarshal(raw, &r); err != nil {
			t.Fatalf("unmarshal recorded message: %v", err)
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeSender) typesSeen(t *testing.T) []string {
	t.Helper()
	envs := f.envelopes(t)
	out := make([]string, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Type)
	}
	return out
}

func (f *fakeSender) countType(t *testing.T, msgType string) int {
	t.Helper()
	n := 0
	for _, typ := range f.typesSeen(t) {
		if typ == msgType {
			n++
		}
	}
	return n
}

func newTestEngine(clk *fakeClock, mutate ...func(*Config)) *Engine {
	cfg := Config{Clock: clk.Now}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewEngine(store.NewMemStore(), cfg)
}
