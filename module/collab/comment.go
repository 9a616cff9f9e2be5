package collab

import (
	"context"
	"sort"

	"CProject/logger"
	"CProject/module/collab/model"
	"CProject/tools/ids"
)

// CommentInput describes a new live comment.
type CommentInput struct {
	FileID   string
	UserID   string
	Username string
	Content  string
	Position int
	ParentID string
}

// AddLiveComment records a comment and broadcasts it to every viewer of
// the file, the author included, so clients need no optimistic UI. The
// author's presence color is reused; palette[0] if they have none.
func (e *Engine) AddLiveComment(in CommentInput) *model.Comment {
	color, ok := e.reg.ColorOf(in.FileID, in.UserID)
	if !ok {
		color = e.cfg.Palette[0]
	}

	c := &model.Comment{
		ID:        ids.GenerateString(),
		FileID:    in.FileID,
		UserID:    in.UserID,
		Username:  in.Username,
		Color:     color,
		Content:   in.Content,
		Position:  in.Position,
		ParentID:  in.ParentID,
		Resolved:  false,
		CreatedAt: e.nowMS(),
	}

	e.mu.Lock()
	e.comments[c.ID] = c
	cp := *c
	e.mu.Unlock()

	e.persistComment(&cp)
	e.reg.BroadcastToFile(in.FileID, Envelope{Type: EvtLiveComment, Data: &cp}, "")

	logger.Infof("[Comment] created id=%s file=%s by=%s", c.ID, c.FileID, c.UserID)
	return &cp
}

// FileComments lists a file's comments oldest-first.
func (e *Engine) FileComments(fileID string) []*model.Comment {
	e.mu.RLock()
	out := make([]*model.Comment, 0)
	for _, c := range e.comments {
		if c.FileID == fileID {
			cp := *c
			out = append(out, &cp)
		}
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ResolveComment marks a comment resolved. Ownership is not checked
// here; authorization happens upstream.
func (e *Engine) ResolveComment(commentID, userID string) bool {
	e.mu.Lock()
	c, ok := e.comments[commentID]
	if !ok {
		e.mu.Unlock()
		return false
	}
	if !c.Resolved {
		c.Resolved = true
		c.ResolvedBy = userID
		c.ResolvedAt = e.nowMS()
	}
	cp := *c
	e.mu.Unlock()

	e.persistComment(&cp)
	e.reg.BroadcastToFile(cp.FileID, Envelope{Type: EvtCommentResolved, Data: &cp}, "")
	return true
}

// DeleteLiveComment removes a comment. Only the author may delete;
// anyone else gets a silent false — callers must check the result.
func (e *Engine) DeleteLiveComment(commentID, userID string) bool {
	e.mu.Lock()
	c, ok := e.comments[commentID]
	if !ok || c.UserID != userID {
		e.mu.Unlock()
		return false
	}
	delete(e.comments, commentID)
	fileID := c.FileID
	e.mu.Unlock()

	if err := e.store.DeleteComment(context.Background(), commentID); err != nil {
		logger.Errorf("[Comment] delete id=%s failed: %v", commentID, err)
	}
	e.reg.BroadcastToFile(fileID, Envelope{
		Type: EvtCommentDeleted,
		Data: map[string]any{"id": commentID, "fileId": fileID},
	}, "")
	return true
}
