package gateway

import (
	"net/http"
	"strconv"

	mid "CProject/middleware/security"
	"CProject/tools/errs"

	"github.com/gin-gonic/gin"
)

// mountAPI exposes the read/ack surface next to the socket: mention
// inbox, file comments, session catch-up. All routes require the same
// JWT the websocket auth frame carries.
func (s *Server) mountAPI(r *gin.Engine) {
	api := r.Group("/api", mid.Auth(s.jwt))

	api.GET("/mentions", s.listMentions)
	api.POST("/mentions/:id/read", s.markMentionRead)
	api.POST("/mentions/read_all", s.markAllMentionsRead)

	api.GET("/files/:fileId/comments", s.listFileComments)
	api.GET("/files/:fileId/viewers", s.listFileViewers)
	api.POST("/comments/:id/resolve", s.resolveComment)
	api.DELETE("/comments/:id", s.deleteComment)

	api.GET("/sessions/:id/operations", s.listOperations)
}

func (s *Server) listMentions(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	mentions := s.engine.UserMentions(mid.UserID(c), unreadOnly)
	c.JSON(http.StatusOK, gin.H{"mentions": mentions})
}

func (s *Server) markMentionRead(c *gin.Context) {
	ok := s.engine.MarkMentionRead(c.Param("id"), mid.UserID(c))
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

func (s *Server) markAllMentionsRead(c *gin.Context) {
	n := s.engine.MarkAllMentionsRead(mid.UserID(c))
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

func (s *Server) listFileComments(c *gin.Context) {
	comments := s.engine.FileComments(c.Param("fileId"))
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (s *Server) listFileViewers(c *gin.Context) {
	viewers := s.engine.FileViewers(c.Param("fileId"))
	c.JSON(http.StatusOK, gin.H{"viewers": viewers})
}

func (s *Server) resolveComment(c *gin.Context) {
	ok := s.engine.ResolveComment(c.Param("id"), mid.UserID(c))
	if !ok {
		c.JSON(http.StatusNotFound, errs.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Non-author delete is a silent no-op by contract: ok=false, 200.
func (s *Server) deleteComment(c *gin.Context) {
	ok := s.engine.DeleteLiveComment(c.Param("id"), mid.UserID(c))
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

func (s *Server) listOperations(c *gin.Context) {
	since, err := strconv.ParseInt(c.DefaultQuery("since", "0"), 10, 64)
	if err != nil || since < 0 {
		c.JSON(http.StatusBadRequest, errs.ErrInvalidArgument)
		return
	}
	ops, err := s.engine.OperationsSince(c.Param("id"), since)
	if err != nil {
		c.JSON(http.StatusNotFound, errs.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operations": ops})
}
