package collab

import (
	"context"
	"sort"

	"CProject/logger"
	"CProject/module/collab/model"
	"CProject/tools/ids"
	"CProject/tools/safe"
)

// MentionInput describes a new @-mention event.
type MentionInput struct {
	FileID            string
	FileName          string
	MentionedUserID   string
	MentionedUsername string
	MentionedBy       string
	MentionedByName   string
	Context           string
	Position          int
}

// CreateMention records a mention and delivers it to every live
// connection of the mentioned user, whether or not they have the file
// open. It is also handed to the external notification boundary for
// users who are offline.
func (e *Engine) CreateMention(in MentionInput) *model.Mention {
	m := &model.Mention{
		ID:                ids.GenerateString(),
		FileID:            in.FileID,
		FileName:          in.FileName,
		MentionedUserID:   in.MentionedUserID,
		MentionedUsername: in.MentionedUsername,
		MentionedBy:       in.MentionedBy,
		MentionedByName:   in.MentionedByName,
		Context:           in.Context,
		Position:          in.Position,
		Read:              false,
		CreatedAt:         e.nowMS(),
	}

	e.mu.Lock()
	e.mentions[m.ID] = m
	cp := *m
	e.mu.Unlock()

	e.persistMention(&cp)
	e.reg.BroadcastToUser(m.MentionedUserID, Envelope{Type: EvtMention, Data: &cp})

	if e.notifier != nil {
		safe.Go(func() {
			if err := e.notifier.MentionCreated(context.Background(), &cp); err != nil {
				logger.Warnf("[Mention] notify id=%s failed: %v", cp.ID, err)
			}
		})
	}

	logger.Infof("[Mention] created id=%s file=%s to=%s by=%s", m.ID, m.FileID, m.MentionedUserID, m.MentionedBy)
	return &cp
}

// UserMentions returns a user's mentions newest-first.
func (e *Engine) UserMentions(userID string, unreadOnly bool) []*model.Mention {
	e.mu.RLock()
	out := make([]*model.Mention, 0)
	for _, m := range e.mentions {
		if m.MentionedUserID != userID {
			continue
		}
		if unreadOnly && m.Read {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// MarkMentionRead marks one of the caller's mentions read. Idempotent:
// a second call leaves ReadAt unchanged and still reports true. A user
// can only mark their own mentions; anything else is false, not an
// error.
func (e *Engine) MarkMentionRead(mentionID, userID string) bool {
	e.mu.Lock()
	m, ok := e.mentions[mentionID]
	if !ok || m.MentionedUserID != userID {
		e.mu.Unlock()
		return false
	}
	if m.Read {
		e.mu.Unlock()
		return true
	}
	m.Read = true
	m.ReadAt = e.nowMS()
	cp := *m
	e.mu.Unlock()

	e.persistMention(&cp)
	return true
}

// MarkAllMentionsRead marks every unread mention of the caller and
// returns how many changed.
func (e *Engine) MarkAllMentionsRead(userID string) int {
	now := e.nowMS()
	var changed []*model.Mention

	e.mu.Lock()
	for _, m := range e.mentions {
		if m.MentionedUserID == userID && !m.Read {
			m.Read = true
			m.ReadAt = now
			cp := *m
			changed = append(changed, &cp)
		}
	}
	e.mu.Unlock()

	for _, m := range changed {
		e.persistMention(m)
	}
	return len(changed)
}
