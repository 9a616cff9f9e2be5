package gateway

import (
	"time"

	"CProject/module/collab"
	"CProject/tools/security"

	"github.com/gin-gonic/gin"
)

// Server binds one engine instance to the websocket and REST surfaces.
type Server struct {
	engine *collab.Engine
	disp   *Dispatcher
	jwt    security.Options
}

func NewServer(engine *collab.Engine, jwt security.Options) *Server {
	s := &Server{
		engine: engine,
		disp:   NewDispatcher(),
		jwt:    jwt,
	}
	registerDefaultHandlers(s.disp)
	return s
}

func (s *Server) Engine() *collab.Engine { return s.engine }

// Mount attaches the websocket endpoint and the REST API to a router.
func (s *Server) Mount(r *gin.Engine) {
	r.GET("/ws", s.HandleWS)
	s.mountAPI(r)
}

func nowMilli() int64 { return time.Now().UnixMilli() }
