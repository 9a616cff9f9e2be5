package gateway

import (
	"fmt"

	"CProject/logger"
)

// HandlerFunc handles one inbound frame for one client.
type HandlerFunc func(s *Server, c *Client, f *Frame) error

type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

func (d *Dispatcher) Register(msgType string, h HandlerFunc) {
	d.handlers[msgType] = h
}

func (d *Dispatcher) Dispatch(s *Server, c *Client, f *Frame) error {
	h, ok := d.handlers[f.Type]
	if !ok {
		return fmt.Errorf("no handler for type=%s", f.Type)
	}
	return h(s, c, f)
}

func (d *Dispatcher) GetHandler(msgType string) HandlerFunc {
	h, ok := d.handlers[msgType]
	if !ok {
		logger.Infof("[Dispatcher] no handler for type=%s", msgType)
		return nil
	}
	return h
}
