package gateway

import (
	"net"
	"net/http"

	"CProject/logger"
	"CProject/tools/errs"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the connection and runs the read loop. Until an
// auth frame passes, everything except ping is rejected. On exit the
// disconnect path (leave file + unregister) runs even when the peer
// vanished without a close frame.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[Gateway] upgrade websocket error: %v", err)
		return
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Debugf("[Gateway] close websocket: %v", err)
		}
	}()

	client := NewClient(ws)

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[Gateway] peer closed err=%v", rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[Gateway] read timeout err=%v", rerr)
			} else {
				logger.Infof("[Gateway] read err=%v", rerr)
			}
			break
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[Gateway] parse frame err=%v sample=%q", perr, sample)
			continue
		}

		if !client.Authorized() && frame.Type != MsgAuth && frame.Type != MsgPing {
			client.SendError(errs.CodeUnauthorized, "authenticate first")
			continue
		}

		handler := s.disp.GetHandler(frame.Type)
		if handler == nil {
			continue
		}
		if herr := handler(s, client, frame); herr != nil {
			logger.Warnf("[Gateway] handler type=%s err=%v", frame.Type, herr)
			if code := errs.CodeOf(herr); code != 0 && code != errs.CodeUnauthorized {
				client.SendError(code, herr.Error())
			}
		}
	}

	// Disconnect path: the transport reported closure, so all presence
	// and per-user references must go now.
	if userID, _, ok := client.Identity(); ok {
		s.engine.Disconnect(userID, client)
	}
}
