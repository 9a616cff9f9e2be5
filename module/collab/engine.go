package collab

import (
	"context"
	"sync"
	"time"

	"CProject/logger"
	"CProject/module/collab/model"
	"CProject/module/collab/store"
)

// Config tunes one engine instance.
type Config struct {
	Palette            []string
	OpLogLimit         int           // retained operation log entries per session
	PresenceStaleAfter time.Duration // heartbeat silence treated as implicit leave
	SessionRetention   time.Duration // how long ended sessions are kept
	MentionRetention   time.Duration // how long mentions are kept, read or not
	SweepEvery         time.Duration
	Clock              func() time.Time // injectable for tests; nil => time.Now
}

func (c *Config) norm() {
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette
	}
	if c.OpLogLimit <= 0 {
		c.OpLogLimit = 1000
	}
	if c.PresenceStaleAfter <= 0 {
		c.PresenceStaleAfter = 5 * time.Minute
	}
	if c.SessionRetention <= 0 {
		c.SessionRetention = 24 * time.Hour
	}
	if c.MentionRetention <= 0 {
		c.MentionRetention = 30 * 24 * time.Hour
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = time.Minute
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// Notifier is the boundary to the external notification-delivery
// subsystem. The engine only hands mentions over; offline delivery is
// not its job.
type Notifier interface {
	MentionCreated(ctx context.Context, m *model.Mention) error
}

// Engine owns all collaboration state for one shard: the connection
// registry, the ephemeral presence/cursor tables and the persisted
// session/mention/comment entities (write-through to the store, with
// the in-memory copy staying authoritative when the store is down).
// Multiple independent engines can coexist in one process.
type Engine struct {
	cfg      Config
	reg      *Registry
	store    store.Store
	notifier Notifier

	mu           sync.RWMutex
	presence     map[string]map[string]*model.PresenceEntry // fileID -> userID
	cursors      map[string]map[string]*model.CursorState   // fileID -> userID
	sessions     map[string]*model.Session                  // sessionID
	activeByFile map[string]string                          // fileID -> active sessionID
	mentions     map[string]*model.Mention                  // mentionID
	comments     map[string]*model.Comment                  // commentID
}

func NewEngine(st store.Store, cfg Config) *Engine {
	cfg.norm()
	return &Engine{
		cfg:          cfg,
		reg:          NewRegistry(cfg.Palette),
		store:        st,
		presence:     make(map[string]map[string]*model.PresenceEntry),
		cursors:      make(map[string]map[string]*model.CursorState),
		sessions:     make(map[string]*model.Session),
		activeByFile: make(map[string]string),
		mentions:     make(map[string]*model.Mention),
		comments:     make(map[string]*model.Comment),
	}
}

// SetNotifier wires the external notification boundary (optional).
func (e *Engine) SetNotifier(n Notifier) { e.notifier = n }

func (e *Engine) Registry() *Registry { return e.reg }

func (e *Engine) now() time.Time { return e.cfg.Clock() }
func (e *Engine) nowMS() int64   { return e.cfg.Clock().UnixMilli() }

// Load rebuilds the persisted entities from the store. Presence and
// cursors are not loaded: they are session-scoped and rebuilt from
// scratch on every join.
func (e *Engine) Load(ctx context.Context) error {
	sessions, err := e.store.ListSessions(ctx)
	if err != nil {
		return err
	}
	mentions, err := e.store.ListMentions(ctx)
	if err != nil {
		return err
	}
	comments, err := e.store.ListComments(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range sessions {
		e.sessions[s.ID] = s
		if s.Status == model.SessionStatusActive {
			e.activeByFile[s.FileID] = s.ID
		}
	}
	for _, m := range mentions {
		e.mentions[m.ID] = m
	}
	for _, c := range comments {
		e.comments[c.ID] = c
	}
	logger.Infof("[Engine] loaded sessions=%d mentions=%d comments=%d",
		len(sessions), len(mentions), len(comments))
	return nil
}

// Disconnect runs the full cleanup path when the transport reports a
// closed connection: implicit leave of any attached file, then removal
// from the per-user index.
func (e *Engine) Disconnect(userID string, s Sender) {
	for _, fileID := range e.reg.FilesOf(s) {
		e.LeaveFile(fileID, userID)
	}
	e.reg.Unregister(userID, s)
	logger.Debugf("[Engine] disconnect user=%s", userID)
}

// persistSession/persistMention/persistComment are best-effort: a
// failed write is logged and the in-memory state stays authoritative.
func (e *Engine) persistSession(s *model.Session) {
	if err := e.store.PutSession(context.Background(), s); err != nil {
		logger.Errorf("[Engine] persist session id=%s failed: %v", s.ID, err)
	}
}

func (e *Engine) persistMention(m *model.Mention) {
	if err := e.store.PutMention(context.Background(), m); err != nil {
		logger.Errorf("[Engine] persist mention id=%s failed: %v", m.ID, err)
	}
}

func (e *Engine) persistComment(c *model.Comment) {
	if err := e.store.PutComment(context.Background(), c); err != nil {
		logger.Errorf("[Engine] persist comment id=%s failed: %v", c.ID, err)
	}
}
