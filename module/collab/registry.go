package collab

import (
	"sync"
	"time"

	"CProject/logger"
)

// Sender is the narrow transport capability the engine fans out over.
// The gateway implements it over a websocket; tests use recording fakes.
type Sender interface {
	Send(data []byte) error
}

// DefaultPalette is the fixed viewer color palette. Attach guarantees
// visually distinct colors up to its size, then deterministic reuse.
var DefaultPalette = []string{
	"#e06c75", "#61afef", "#98c379", "#e5c07b", "#c678dd",
	"#56b6c2", "#d19a66", "#abb2bf", "#f47068", "#6fc2ef",
}

type viewer struct {
	userID   string
	username string
	color    string
	joinedAt time.Time
	sender   Sender
}

// Registry tracks live connections in two in-memory indexes: per-file
// (who is attached to a file) and per-user (direct delivery regardless
// of file). Neither index is ever persisted.
type Registry struct {
	mu      sync.RWMutex
	byFile  map[string]map[string]*viewer // fileID -> userID -> viewer
	byUser  map[string][]Sender           // userID -> live senders
	palette []string
}

func NewRegistry(palette []string) *Registry {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Registry{
		byFile:  make(map[string]map[string]*viewer),
		byUser:  make(map[string][]Sender),
		palette: palette,
	}
}

// Register adds a per-user delivery target. A user may hold several
// (multi-tab); each is registered separately.
func (r *Registry) Register(userID string, s Sender) {
	if userID == "" || s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = append(r.byUser[userID], s)
}

// Unregister removes one delivery target by identity.
func (r *Registry) Unregister(userID string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser[userID]
	for i, cand := range list {
		if cand == s {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.byUser, userID)
	} else {
		r.byUser[userID] = list
	}
}

// Attach joins a connection to a file and assigns a display color: the
// first palette color not in use by another viewer of the file, falling
// back to palette[viewers % len] once exhausted. Attaching the same
// (file, user) again replaces the previous attachment.
func (r *Registry) Attach(fileID, userID, username string, s Sender) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.byFile[fileID]
	if m == nil {
		m = make(map[string]*viewer)
		r.byFile[fileID] = m
	}

	used := make(map[string]bool, len(m))
	for uid, v := range m {
		if uid != userID {
			used[v.color] = true
		}
	}
	color := r.palette[len(m)%len(r.palette)]
	for _, c := range r.palette {
		if !used[c] {
			color = c
			break
		}
	}

	m[userID] = &viewer{
		userID:   userID,
		username: username,
		color:    color,
		joinedAt: time.Now(),
		sender:   s,
	}
	return color
}

func (r *Registry) Detach(fileID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.byFile[fileID]; m != nil {
		delete(m, userID)
		if len(m) == 0 {
			delete(r.byFile, fileID)
		}
	}
}

// ColorOf returns the color assigned to a file viewer, if attached.
func (r *Registry) ColorOf(fileID, userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m := r.byFile[fileID]; m != nil {
		if v, ok := m[userID]; ok {
			return v.color, true
		}
	}
	return "", false
}

// FilesOf lists the files a sender is currently attached to. Used on
// disconnect, where the transport only hands back the dead connection.
func (r *Registry) FilesOf(s Sender) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for fileID, m := range r.byFile {
		for _, v := range m {
			if v.sender == s {
				out = append(out, fileID)
				break
			}
		}
	}
	return out
}

func (r *Registry) ViewerCount(fileID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byFile[fileID])
}

// BroadcastToFile fans out to every viewer of a file except
// excludeUserID. A failed send is logged and skipped; one dead
// connection never aborts delivery to siblings. Unknown file = zero
// recipients.
func (r *Registry) BroadcastToFile(fileID string, env Envelope, excludeUserID string) {
	data, err := env.Marshal()
	if err != nil {
		logger.Errorf("[Registry] marshal %s failed: %v", env.Type, err)
		return
	}

	r.mu.RLock()
	targets := make([]*viewer, 0, len(r.byFile[fileID]))
	for uid, v := range r.byFile[fileID] {
		if uid == excludeUserID {
			continue
		}
		targets = append(targets, v)
	}
	r.mu.RUnlock()

	for _, v := range targets {
		if err := v.sender.Send(data); err != nil {
			logger.Warnf("[Registry] send %s to user=%s file=%s failed: %v",
				env.Type, v.userID, fileID, err)
		}
	}
}

// BroadcastToUser delivers to every live connection of one user,
// independent of any file. Unknown user = zero recipients.
func (r *Registry) BroadcastToUser(userID string, env Envelope) {
	data, err := env.Marshal()
	if err != nil {
		logger.Errorf("[Registry] marshal %s failed: %v", env.Type, err)
		return
	}

	r.mu.RLock()
	targets := append([]Sender(nil), r.byUser[userID]...)
	r.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(data); err != nil {
			logger.Warnf("[Registry] send %s to user=%s failed: %v", env.Type, userID, err)
		}
	}
}
